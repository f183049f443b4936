package pending

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

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, story *models.PendingStory) (int64, error) {
	story.Status = models.StatusPending
	story.CreatedAt = time.Now().UTC()

	query := `INSERT INTO pending_stories (client_ref, description, photo, lat, lon, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		story.ClientRef, story.Description, story.Photo,
		nullFloat(story.Lat), nullFloat(story.Lon),
		string(story.Status), story.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to enqueue story: %v", common.ErrorStorage, err)
	}

	tempID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get assigned temp id: %v", common.ErrorStorage, err)
	}
	story.TempID = tempID
	return tempID, nil
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, status models.Status) ([]models.PendingStory, error) {
	query := `SELECT temp_id, client_ref, description, photo, lat, lon, status, created_at, synced_at, last_error
			FROM pending_stories WHERE status = ?`
	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select pending stories: %v", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []models.PendingStory
	for rows.Next() {
		item, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, tempID int64) (*models.PendingStory, error) {
	query := `SELECT temp_id, client_ref, description, photo, lat, lon, status, created_at, synced_at, last_error
			FROM pending_stories WHERE temp_id = ?`
	row := r.db.QueryRowContext(ctx, query, tempID)

	item, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateStatus mutates a single row. Setting synced also stamps synced_at;
// the WHERE clause keeps the transition one-way so a synced entry can never
// return to pending.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, tempID int64, status models.Status) error {
	var res sql.Result
	var err error

	if status == models.StatusSynced {
		query := `UPDATE pending_stories SET status = ?, synced_at = ? WHERE temp_id = ? AND status != ?`
		res, err = r.db.ExecContext(ctx, query,
			string(status), time.Now().UTC().Format(time.RFC3339Nano), tempID, string(status))
	} else {
		query := `UPDATE pending_stories SET status = ? WHERE temp_id = ? AND status != 'synced'`
		res, err = r.db.ExecContext(ctx, query, string(status), tempID)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to update status: %v", common.ErrorStorage, err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %v", common.ErrorStorage, err)
	}
	if ra == 0 {
		return r.explainMissedUpdate(ctx, tempID)
	}
	return nil
}

// explainMissedUpdate distinguishes "row does not exist" from "row already
// terminal": the former is ErrorNotFound, the latter a quiet success.
func (r *SQLiteRepository) explainMissedUpdate(ctx context.Context, tempID int64) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_stories WHERE temp_id = ?`, tempID).Scan(&n)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) RecordFailure(ctx context.Context, tempID int64, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pending_stories SET last_error = ? WHERE temp_id = ?`, reason, tempID)
	if err != nil {
		return fmt.Errorf("%w: failed to record failure: %v", common.ErrorStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %v", common.ErrorStorage, err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, tempID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_stories WHERE temp_id = ?`, tempID)
	if err != nil {
		return fmt.Errorf("%w: failed to remove entry: %v", common.ErrorStorage, err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.PendingStory, error) {
	var (
		item      models.PendingStory
		status    string
		lat, lon  sql.NullFloat64
		createdAt string
		syncedAt  sql.NullString
	)

	err := row.Scan(&item.TempID, &item.ClientRef, &item.Description, &item.Photo,
		&lat, &lon, &status, &createdAt, &syncedAt, &item.LastError)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to scan pending story: %v", common.ErrorStorage, err)
	}

	item.Status = models.Status(status)
	if lat.Valid {
		item.Lat = &lat.Float64
	}
	if lon.Valid {
		item.Lon = &lon.Float64
	}

	item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q: %v", common.ErrorStorage, createdAt, err)
	}
	if syncedAt.Valid {
		ts, err := time.Parse(time.RFC3339Nano, syncedAt.String)
		if err != nil {
			return nil, fmt.Errorf("%w: bad synced_at %q: %v", common.ErrorStorage, syncedAt.String, err)
		}
		item.SyncedAt = &ts
	}

	return &item, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
