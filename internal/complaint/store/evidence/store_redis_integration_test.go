//go:build integration

package evidence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"caseline/internal/complaint/models"
	"caseline/internal/complaint/store/evidence"
	"caseline/pkg/domain"
	"caseline/pkg/testutil/containers"
)

func TestRedisEvidenceStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	store := evidence.NewRedis(containers.StartRedis(t))
	ctx := context.Background()
	id := domain.NewComplaintID()
	officerID := domain.NewOfficerID()

	items, err := store.List(ctx, id)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, store.Append(ctx, models.EvidenceItem{
		ComplaintID: id,
		Kind:        models.EvidenceImage,
		Ref:         "https://evidence.example.org/cctv/1.jpg",
		OfficerID:   officerID,
		Visibility:  models.VisibilityPrivate,
		Tags:        []string{"cctv", "night"},
	}))

	items, err = store.List(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, officerID, items[0].OfficerID)
	require.Equal(t, []string{"cctv", "night"}, items[0].Tags)
}
