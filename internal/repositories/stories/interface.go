package stories

import (
	"context"

	"github.com/graminsta/storysync/internal/models"
)

// Repository stores bookmarked stories keyed by their server-issued id.
// It shares the SQLite database with the pending queue but is otherwise
// independent of the sync pipeline.
type Repository interface {
	// Put inserts or overwrites a story by its server id.
	Put(ctx context.Context, story *models.Story) error

	// GetByID returns a story or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Story, error)

	// GetAll lists every saved story.
	GetAll(ctx context.Context) ([]models.Story, error)

	// Remove deletes a story. Removing an unknown id is a no-op.
	Remove(ctx context.Context, id string) error
}
