package storage

import (
	"context"
	"testing"
	"time"

	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store, err := Open("memory", "")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	ctx := context.Background()

	run := models.NewGenerationRun("https://docs.publica.com")
	require.NoError(t, store.CreateRun(ctx, run))
	assert.Error(t, store.CreateRun(ctx, run))

	run.Files = append(run.Files, "sitemap.xml")
	run.Finish(nil)
	require.NoError(t, store.UpdateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	assert.Equal(t, []string{"sitemap.xml"}, got.Files)

	got.Files[0] = "mutated"
	again, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sitemap.xml"}, again.Files)
}

func TestMemoryStore_ListPaging(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := models.NewGenerationRun("https://docs.publica.com")
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.CreateRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))

	runs, err = store.ListRuns(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	err := NewMemoryStore().UpdateRun(context.Background(), models.NewGenerationRun("https://docs.publica.com"))
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestMemoryStore_ListWithoutLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateRun(ctx, models.NewGenerationRun("https://docs.publica.com")))
	}

	for _, limit := range []int{0, -1} {
		runs, err := store.ListRuns(ctx, limit, 0)
		require.NoError(t, err)
		assert.Len(t, runs, 3, "limit %d", limit)
	}

	runs, err := store.ListRuns(ctx, -1, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.ListRuns(ctx, 2, -5)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	count, err := store.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
