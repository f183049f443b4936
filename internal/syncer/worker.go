package syncer

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/graminsta/storysync/internal/api"
	"github.com/graminsta/storysync/internal/encodex"
	"github.com/graminsta/storysync/internal/logging"
	"github.com/graminsta/storysync/internal/models"
	"github.com/graminsta/storysync/internal/notify"
	"github.com/graminsta/storysync/internal/repositories/pending"
)

// StoryPoster replays one submission against the remote API.
type StoryPoster interface {
	PostStory(ctx context.Context, token string, sub api.Submission) (string, error)
}

// TokenProvider fetches the current credential; the relay client satisfies
// this from outside the app's memory.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

const defaultConcurrency = 4

// Worker drains the pending queue and replays each entry against the remote
// API. It runs independently of the interactive app flow: a process crash
// mid-run leaves unsynced entries pending, and the next run picks them up
// again.
type Worker struct {
	queue       pending.Repository
	client      StoryPoster
	tokens      TokenProvider
	notifier    notify.Notifier
	log         logging.Logger
	concurrency int
}

// NewWorker wires a Worker. A non-positive concurrency falls back to the
// default bound; entries in one run carry no ordering guarantee.
func NewWorker(queue pending.Repository, client StoryPoster, tokens TokenProvider,
	notifier notify.Notifier, log logging.Logger, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Worker{
		queue:       queue,
		client:      client,
		tokens:      tokens,
		notifier:    notifier,
		log:         log,
		concurrency: concurrency,
	}
}

// Run blocks on the trigger channel, executing one reconciliation pass per
// signal, until ctx is cancelled. RunOnce errors are logged, not fatal:
// whatever stayed pending is retried on the next trigger.
func (w *Worker) Run(ctx context.Context, trigger <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
			if err := w.RunOnce(ctx); err != nil {
				w.log.Error(ctx, "sync run failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single reconciliation pass:
//
//  1. load all pending entries; a storage failure aborts the run
//  2. nothing pending: silent no-op
//  3. fetch the credential through the relay; unavailable auth aborts the
//     run before any entry is touched
//  4. replay entries independently with bounded concurrency; one entry's
//     failure never blocks the others
//  5. notify the user when at least one entry synced
//
// Per-entry failures are recorded on the entry and the run still counts as
// successful; only storage- or auth-level failures propagate.
func (w *Worker) RunOnce(ctx context.Context) error {
	entries, err := w.queue.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return fmt.Errorf("listing pending entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	token, err := w.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("fetching credential: %w", err)
	}

	w.log.Info(ctx, "sync run started", "pending", len(entries))

	var synced atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, entry := range entries {
		g.Go(func() error {
			if w.replay(gctx, token, entry) {
				synced.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(synced.Load())
	w.log.Info(ctx, "sync run finished", "synced", n, "failed", len(entries)-n)

	if n > 0 {
		w.notifier.SyncCompleted(ctx, n, len(entries)-n)
	}
	return nil
}

// replay pushes one entry to the API and marks it synced. Returns false on
// any failure; the entry stays pending and carries the failure reason.
func (w *Worker) replay(ctx context.Context, token string, entry models.PendingStory) bool {
	log := w.log.With("temp_id", entry.TempID)

	photo, err := encodex.Decode(entry.Photo)
	if err != nil {
		log.Error(ctx, "stored photo payload is malformed", "error", err)
		w.recordFailure(ctx, entry.TempID, err.Error())
		return false
	}

	msg, err := w.client.PostStory(ctx, token, api.Submission{
		Description: entry.Description,
		Photo:       photo,
		PhotoMime:   encodex.MimeType(entry.Photo),
		Lat:         entry.Lat,
		Lon:         entry.Lon,
		ClientRef:   entry.ClientRef,
	})
	if err != nil {
		log.Warn(ctx, "replay failed, entry stays pending", "error", err)
		w.recordFailure(ctx, entry.TempID, err.Error())
		return false
	}

	if err := w.queue.UpdateStatus(ctx, entry.TempID, models.StatusSynced); err != nil {
		// The server accepted the story but local state could not be
		// updated; the next run resends it with the same client ref.
		log.Error(ctx, "failed to mark entry synced", "error", err)
		return false
	}

	log.Info(ctx, "entry synced", "message", msg)
	return true
}

func (w *Worker) recordFailure(ctx context.Context, tempID int64, reason string) {
	if err := w.queue.RecordFailure(ctx, tempID, reason); err != nil {
		w.log.Warn(ctx, "failed to record entry failure", "temp_id", tempID, "error", err)
	}
}
