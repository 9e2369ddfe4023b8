package cache

import (
	"context"
	"encoding/json"
	"errors"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/wxtools/zipcast/internal/model"
)

const redisKeyPrefix = "zipcoord:"

// RedisStore keeps ZIP coordinates in Redis, for setups where several hosts
// share one cache. Coordinates never go stale, so entries carry no expiry.
type RedisStore struct {
	client *redisv9.Client
}

func NewRedisStore(client *redisv9.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Lookup(ctx context.Context, zip string) (*model.ZipCoordinate, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+zip).Result()
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var coord model.ZipCoordinate
	if err := json.Unmarshal([]byte(val), &coord); err != nil {
		return nil, false, err
	}
	return &coord, true, nil
}

func (s *RedisStore) Save(ctx context.Context, coord model.ZipCoordinate) error {
	b, err := json.Marshal(coord)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+coord.ZipCode, b, 0).Err()
}
