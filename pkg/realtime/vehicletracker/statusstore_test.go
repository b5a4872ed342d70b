package vehicletracker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*StatusStore, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStatusStore(client, time.Hour), server
}

func TestStatusStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	status := &ctdf.VehicleStatus{
		VehicleRef:   "bus-1",
		Status:       ctdf.ServiceStatusWaiting,
		LastLocation: ctdf.NewPoint(-15.84, -70.02),
		LastMovement: start,
		LastUpdate:   start.Add(70 * time.Second),
	}
	require.NoError(t, store.Put(ctx, status))

	stored, found, err := store.Get(ctx, "bus-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ctdf.ServiceStatusWaiting, stored.Status)
	assert.Equal(t, -70.02, stored.LastLocation.Longitude())
	assert.True(t, start.Equal(stored.LastMovement))
}

func TestStatusStoreUnknownVehicle(t *testing.T) {
	store, _ := newTestStore(t)

	status, found, err := store.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, status)
}

func TestStatusStoreListDropsExpired(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &ctdf.VehicleStatus{VehicleRef: "bus-1", Status: ctdf.ServiceStatusActive}))
	require.NoError(t, store.Put(ctx, &ctdf.VehicleStatus{VehicleRef: "bus-2", Status: ctdf.ServiceStatusOffline}))

	statuses, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)

	server.FastForward(2 * time.Hour)

	statuses, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, statuses)

	assert.False(t, server.Exists(statusIndexKey))
}
