package vehicletracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const statusIndexKey = "vehicle_status_index"

// StatusStore shares the latest vehicle statuses between the tracker and the API through redis
type StatusStore struct {
	client *redis.Client
	cache  *cache.Cache[string]
}

func NewStatusStore(client *redis.Client, expiration time.Duration) *StatusStore {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &StatusStore{
		client: client,
		cache:  cache.New[string](redisStore),
	}
}

func statusKey(vehicleRef string) string {
	return fmt.Sprintf("vehicle_status:%s", vehicleRef)
}

func (s *StatusStore) Put(ctx context.Context, status *ctdf.VehicleStatus) error {
	encoded, err := json.Marshal(status)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, statusKey(status.VehicleRef), string(encoded)); err != nil {
		return err
	}

	return s.client.SAdd(ctx, statusIndexKey, status.VehicleRef).Err()
}

// Get returns the stored status, false when the vehicle is unknown or its entry expired
func (s *StatusStore) Get(ctx context.Context, vehicleRef string) (*ctdf.VehicleStatus, bool, error) {
	encoded, err := s.cache.Get(ctx, statusKey(vehicleRef))
	if errors.Is(err, store.NotFound{}) || errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var status ctdf.VehicleStatus
	if err := json.Unmarshal([]byte(encoded), &status); err != nil {
		return nil, false, err
	}

	return &status, true, nil
}

func (s *StatusStore) List(ctx context.Context) ([]*ctdf.VehicleStatus, error) {
	vehicleRefs, err := s.client.SMembers(ctx, statusIndexKey).Result()
	if err != nil {
		return nil, err
	}

	statuses := []*ctdf.VehicleStatus{}
	for _, vehicleRef := range vehicleRefs {
		status, found, err := s.Get(ctx, vehicleRef)
		if err != nil {
			return nil, err
		}

		if !found {
			if err := s.client.SRem(ctx, statusIndexKey, vehicleRef).Err(); err != nil {
				log.Error().Err(err).Str("vehicle", vehicleRef).Msg("Failed to remove expired vehicle from index")
			}
			continue
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
