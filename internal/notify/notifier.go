// Package notify delivers local, user-visible completion notices. No server
// round trip is involved.
package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/graminsta/storysync/internal/logging"
)

// Notifier receives a summary after a reconciliation run synced at least
// one queued submission.
type Notifier interface {
	SyncCompleted(ctx context.Context, synced, failed int)
}

// WriterNotifier prints the notice to an io.Writer (the CLI's stdout) and
// mirrors it to the structured log.
type WriterNotifier struct {
	w   io.Writer
	log logging.Logger
}

func NewWriterNotifier(w io.Writer, log logging.Logger) *WriterNotifier {
	return &WriterNotifier{w: w, log: log}
}

func (n *WriterNotifier) SyncCompleted(ctx context.Context, synced, failed int) {
	noun := "stories"
	if synced == 1 {
		noun = "story"
	}
	fmt.Fprintf(n.w, "Back online: %d offline %s synced successfully.\n", synced, noun)
	n.log.Info(ctx, "sync completed", "synced", synced, "failed", failed)
}
