package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://docs.publica.com")
	require.NoError(t, store.CreateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "https://docs.publica.com", got.SiteURL)
	assert.Equal(t, models.RunStatusRunning, got.Status)
	assert.Empty(t, got.Files)
	assert.Nil(t, got.FinishedAt)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Second)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://docs.publica.com")
	require.NoError(t, store.CreateRun(ctx, run))

	run.URLCount = 12
	run.ExcludedCount = 3
	run.Files = []string{"sitemap-0.xml", "sitemap.xml", "robots.txt"}
	run.Finish(nil)
	require.NoError(t, store.UpdateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	assert.Equal(t, 12, got.URLCount)
	assert.Equal(t, 3, got.ExcludedCount)
	assert.Equal(t, []string{"sitemap-0.xml", "sitemap.xml", "robots.txt"}, got.Files)
	require.NotNil(t, got.FinishedAt)
}

func TestSQLiteStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateRun(context.Background(), models.NewGenerationRun("https://docs.publica.com"))
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run := models.NewGenerationRun("https://docs.publica.com")
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	runs, err = store.ListRuns(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[0], runs[0].ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
}

func TestSQLiteStore_ListWithoutLimitAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateRun(ctx, models.NewGenerationRun("https://docs.publica.com")))
	}

	for _, limit := range []int{0, -1} {
		runs, err := store.ListRuns(ctx, limit, 0)
		require.NoError(t, err)
		assert.Len(t, runs, 3, "limit %d", limit)
	}

	count, err = store.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
