package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/graminsta/storysync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyPinger flips between reachable and unreachable under test control.
type flakyPinger struct {
	mu   sync.Mutex
	fail bool
}

func (p *flakyPinger) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("unreachable")
	}
	return nil
}

func (p *flakyPinger) setFail(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = v
}

func startMonitor(t *testing.T, p Pinger) *Monitor {
	t.Helper()
	m := NewMonitor(p, 10*time.Millisecond, logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)
	waitFor(t, m.running.Load)
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestMonitor_TracksConnectivity(t *testing.T) {
	p := &flakyPinger{fail: true}
	m := startMonitor(t, p)

	waitFor(t, func() bool { return !m.Online() })

	p.setFail(false)
	waitFor(t, m.Online)

	p.setFail(true)
	waitFor(t, func() bool { return !m.Online() })
}

func TestMonitor_RegisterSyncFiresOnRestore(t *testing.T) {
	p := &flakyPinger{fail: true}
	m := startMonitor(t, p)
	waitFor(t, func() bool { return !m.Online() })

	require.NoError(t, m.RegisterSync())

	select {
	case <-m.Restored():
		t.Fatal("trigger must not fire while offline")
	case <-time.After(50 * time.Millisecond):
	}

	p.setFail(false)

	select {
	case <-m.Restored():
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not fire after connectivity returned")
	}
}

func TestMonitor_RegisterSyncWhileOnlineFiresImmediately(t *testing.T) {
	p := &flakyPinger{}
	m := startMonitor(t, p)
	waitFor(t, m.Online)

	require.NoError(t, m.RegisterSync())

	select {
	case <-m.Restored():
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not fire for an already-online monitor")
	}
}

func TestMonitor_RestoreWithoutRegistrationStaysQuiet(t *testing.T) {
	p := &flakyPinger{fail: true}
	m := startMonitor(t, p)
	waitFor(t, func() bool { return !m.Online() })

	p.setFail(false)
	waitFor(t, m.Online)

	select {
	case <-m.Restored():
		t.Fatal("unarmed monitor must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_RegisterSyncBeforeRun(t *testing.T) {
	m := NewMonitor(&flakyPinger{}, time.Second, logging.NewNopLogger())
	err := m.RegisterSync()
	assert.ErrorIs(t, err, ErrMonitorNotRunning)
}
