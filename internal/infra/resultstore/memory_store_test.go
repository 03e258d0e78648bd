package resultstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
)

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStorePublishReplacesWholeSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := shipment.Snapshot{
		RequestID:   "req-1",
		TransitDays: 3.5,
		Path:        []geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}},
	}
	require.NoError(t, store.Publish(ctx, first))

	got, ok, err := store.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, got)

	second := shipment.Snapshot{RequestID: "req-2", TransitDays: 2.0}
	require.NoError(t, store.Publish(ctx, second))

	got, ok, err = store.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, got)
	require.Empty(t, got.Path)
}
