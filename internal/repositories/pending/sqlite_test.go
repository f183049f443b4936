package pending

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/graminsta/storysync/internal/common"
	"github.com/graminsta/storysync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_stories (
  temp_id     INTEGER PRIMARY KEY AUTOINCREMENT,
  client_ref  TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL,
  photo       TEXT NOT NULL,
  lat         REAL,
  lon         REAL,
  status      TEXT NOT NULL DEFAULT 'pending',
  created_at  TIMESTAMP NOT NULL,
  synced_at   TIMESTAMP,
  last_error  TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)

	return db
}

func ptr(v float64) *float64 { return &v }

func TestEnqueue_AssignsDistinctTempIDs(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seen := make(map[int64]struct{})
	for i := 0; i < 5; i++ {
		story := &models.PendingStory{
			ClientRef:   "ref-" + string(rune('a'+i)),
			Description: "desc",
			Photo:       "data:image/jpeg;base64,AAAA",
		}
		id, err := r.Enqueue(ctx, story)
		require.NoError(t, err)
		require.Equal(t, id, story.TempID)

		_, dup := seen[id]
		require.False(t, dup, "temp ids must be distinct")
		seen[id] = struct{}{}

		assert.Equal(t, models.StatusPending, story.Status)
		assert.False(t, story.CreatedAt.IsZero())
	}

	got, err := r.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestEnqueue_PersistsCoordinates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	story := &models.PendingStory{
		ClientRef:   "ref-1",
		Description: "Fire on Main St, please send help",
		Photo:       "data:image/jpeg;base64,AAAA",
		Lat:         ptr(-6.2),
		Lon:         ptr(106.8),
	}
	id, err := r.Enqueue(ctx, story)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Fire on Main St, please send help", got.Description)
	require.NotNil(t, got.Lat)
	require.NotNil(t, got.Lon)
	assert.InDelta(t, -6.2, *got.Lat, 1e-9)
	assert.InDelta(t, 106.8, *got.Lon, 1e-9)
	assert.Nil(t, got.SyncedAt)
}

func TestEnqueue_NilCoordinatesStayNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{
		ClientRef: "ref-1", Description: "d", Photo: "p",
	})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Lat)
	assert.Nil(t, got.Lon)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateStatus_MarksSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: "r1", Description: "d", Photo: "p"})
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, r.UpdateStatus(ctx, id, models.StatusSynced))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.Status)
	require.NotNil(t, got.SyncedAt)
	assert.True(t, got.SyncedAt.After(before))
}

func TestUpdateStatus_SyncedIsTerminal(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: "r1", Description: "d", Photo: "p"})
	require.NoError(t, err)
	require.NoError(t, r.UpdateStatus(ctx, id, models.StatusSynced))

	// attempting to move it back is a quiet no-op, not an error
	require.NoError(t, r.UpdateStatus(ctx, id, models.StatusPending))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.Status)
}

func TestUpdateStatus_NotFoundLeavesOthersUntouched(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: "r1", Description: "d", Photo: "p"})
	require.NoError(t, err)

	err = r.UpdateStatus(ctx, 9999, models.StatusSynced)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestRecordFailure(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: "r1", Description: "d", Photo: "p"})
	require.NoError(t, err)

	require.NoError(t, r.RecordFailure(ctx, id, "server said no"))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "server said no", got.LastError)
	assert.Equal(t, models.StatusPending, got.Status)

	assert.ErrorIs(t, r.RecordFailure(ctx, 777, "x"), common.ErrorNotFound)
}

func TestListByStatus_FiltersOnStatus(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	var ids []int64
	for _, ref := range []string{"a", "b", "c"} {
		id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: ref, Description: "d", Photo: "p"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, r.UpdateStatus(ctx, ids[1], models.StatusSynced))

	pendingList, err := r.ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pendingList, 2)

	syncedList, err := r.ListByStatus(ctx, models.StatusSynced)
	require.NoError(t, err)
	require.Len(t, syncedList, 1)
	assert.Equal(t, ids[1], syncedList[0].TempID)
}

func TestRemove_IsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, &models.PendingStory{ClientRef: "r1", Description: "d", Photo: "p"})
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, id))
	require.NoError(t, r.Remove(ctx, id)) // second remove is a no-op

	_, err = r.GetByID(ctx, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
