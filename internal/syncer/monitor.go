// Package syncer contains the connectivity monitor and the background
// reconciliation worker that drains the offline queue once the story
// service is reachable again.
package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/graminsta/storysync/internal/logging"
)

// Pinger probes reachability of the remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrMonitorNotRunning is returned by RegisterSync before Run has started;
// callers treat registration as best-effort and only log this.
var ErrMonitorNotRunning = errors.New("connectivity monitor is not running")

const probeTimeout = 3 * time.Second

// Monitor keeps a best-effort online flag fresh by probing the API on an
// interval, and wakes the sync worker when connectivity returns after a
// sync was requested. The flag is a hint: a request sent while "online" can
// still fail mid-flight, which the submitter handles by falling back to the
// queue.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online   atomic.Bool
	armed    atomic.Bool
	running  atomic.Bool
	restored chan struct{}
}

func NewMonitor(pinger Pinger, interval time.Duration, log logging.Logger) *Monitor {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Monitor{
		pinger:   pinger,
		interval: interval,
		log:      log,
		restored: make(chan struct{}, 1),
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Restored delivers a signal each time connectivity comes back while a sync
// is armed. The channel is buffered; signals coalesce rather than queue up.
func (m *Monitor) Restored() <-chan struct{} {
	return m.restored
}

// RegisterSync arms the restore trigger so the next offline-to-online
// transition wakes the worker. If the service is already reachable the
// trigger fires immediately. Best-effort: the only failure mode is a
// monitor that was never started.
func (m *Monitor) RegisterSync() error {
	if !m.running.Load() {
		return ErrMonitorNotRunning
	}
	m.armed.Store(true)
	if m.online.Load() {
		m.fire()
	}
	return nil
}

// Run probes immediately, then on every tick, until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.running.Store(true)
	defer m.running.Store(false)

	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.pinger.Ping(probeCtx)
	cancel()

	nowOnline := err == nil
	wasOnline := m.online.Swap(nowOnline)

	if nowOnline && !wasOnline {
		m.log.Info(ctx, "connectivity restored")
		if m.armed.Load() {
			m.fire()
		}
	}
	if !nowOnline && wasOnline {
		m.log.Warn(ctx, "connectivity lost", "error", err)
	}
}

func (m *Monitor) fire() {
	m.armed.Store(false)
	select {
	case m.restored <- struct{}{}:
	default:
	}
}
