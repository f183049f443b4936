package pending

import (
	"context"

	"github.com/graminsta/storysync/internal/models"
)

// Repository describes the durable queue of story submissions awaiting
// delivery to the remote API. Implementations are backed by the local
// SQLite database.
//
// The queue is the single shared resource between the submit path and the
// sync worker; every mutation is an atomic per-row operation so concurrent
// enqueue and drain cannot corrupt each other's state.
type Repository interface {
	// Enqueue inserts a new submission, assigns the next TempID, sets
	// Status to pending and CreatedAt to now. Returns the assigned TempID.
	// Underlying storage errors match common.ErrorStorage.
	Enqueue(ctx context.Context, story *models.PendingStory) (int64, error)

	// ListByStatus returns all entries with the given status, in no
	// particular order.
	ListByStatus(ctx context.Context, status models.Status) ([]models.PendingStory, error)

	// GetByID returns a single entry or common.ErrorNotFound.
	GetByID(ctx context.Context, tempID int64) (*models.PendingStory, error)

	// UpdateStatus sets the entry's status. Transitioning to synced also
	// records SyncedAt. Returns common.ErrorNotFound for an unknown TempID.
	UpdateStatus(ctx context.Context, tempID int64, status models.Status) error

	// RecordFailure stores the most recent replay failure reason for the
	// entry, leaving its status untouched.
	RecordFailure(ctx context.Context, tempID int64, reason string) error

	// Remove deletes an entry. Removing a non-existent id is a no-op.
	Remove(ctx context.Context, tempID int64) error
}
