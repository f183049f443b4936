package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/graminsta/storysync/internal/common"
	"github.com/graminsta/storysync/internal/dbx"
	"github.com/graminsta/storysync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put upserts by server id so re-saving an already bookmarked story succeeds.
func (r *SQLiteRepository) Put(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		return fmt.Errorf("%w: story id is required to save", common.ErrorStorage)
	}

	query := `INSERT INTO saved_stories (id, name, description, photo_url, created_at, lat, lon)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				description = excluded.description,
				photo_url = excluded.photo_url,
				created_at = excluded.created_at,
				lat = excluded.lat,
				lon = excluded.lon
	`
	_, err := r.db.ExecContext(ctx, query,
		story.ID, story.Name, story.Description, story.PhotoURL,
		story.CreatedAt.UTC().Format(time.RFC3339Nano),
		nullFloat(story.Lat), nullFloat(story.Lon))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert story: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := `SELECT id, name, description, photo_url, created_at, lat, lon
			FROM saved_stories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	story, err := scanStory(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return story, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	query := `SELECT id, name, description, photo_url, created_at, lat, lon
			FROM saved_stories ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select stories: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []models.Story
	for rows.Next() {
		story, err := scanStory(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to remove story: %v", common.ErrorStorage, err)
	}
	return nil
}

func scanStory(scan func(dest ...any) error) (*models.Story, error) {
	var (
		story     models.Story
		createdAt string
		lat, lon  sql.NullFloat64
	)
	err := scan(&story.ID, &story.Name, &story.Description, &story.PhotoURL, &createdAt, &lat, &lon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to scan story: %v", common.ErrorStorage, err)
	}

	story.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q: %v", common.ErrorStorage, createdAt, err)
	}
	if lat.Valid {
		story.Lat = &lat.Float64
	}
	if lon.Valid {
		story.Lon = &lon.Float64
	}
	return &story, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
