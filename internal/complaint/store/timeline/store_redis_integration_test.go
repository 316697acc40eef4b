//go:build integration

package timeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"caseline/internal/complaint/models"
	"caseline/internal/complaint/store/timeline"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
	"caseline/pkg/testutil/containers"
)

func TestRedisTimelineStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	store := timeline.NewRedis(containers.StartRedis(t))
	ctx := context.Background()
	id := domain.NewComplaintID()

	err := store.Append(ctx, models.TimelineEntry{ComplaintID: id, Text: "orphan"})
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.EnsureLog(ctx, id))
	require.NoError(t, store.EnsureLog(ctx, id), "idempotent")

	entries, err := store.List(ctx, id)
	require.NoError(t, err)
	require.Empty(t, entries)

	at := time.Now().UTC().Truncate(time.Millisecond)
	for _, text := range []string{"first", "second"} {
		require.NoError(t, store.Append(ctx, models.TimelineEntry{
			ComplaintID: id,
			Text:        text,
			AuthorRole:  models.AuthorSystem,
			Timestamp:   at,
			Visibility:  models.VisibilityVictim,
		}))
	}

	entries, err = store.List(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "first", entries[0].Text)
	require.Equal(t, models.AuthorSystem, entries[0].AuthorRole)
	require.True(t, entries[0].Timestamp.Equal(at), "timestamps survive the JSON round trip")

	_, err = store.List(ctx, domain.NewComplaintID())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
