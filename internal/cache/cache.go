package cache

import (
	"context"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/model"
)

// Store persists ZIP-to-coordinate mappings between runs. Entries are
// immutable; a miss is reported via the bool, not an error.
type Store interface {
	Lookup(ctx context.Context, zip string) (*model.ZipCoordinate, bool, error)
	Save(ctx context.Context, coord model.ZipCoordinate) error
}

// NewFromConfig returns the cache backend selected by cache.backend.
func NewFromConfig() (Store, error) {
	switch backend := config.GetCacheBackend(); backend {
	case "file":
		return NewFileStore(config.GetCacheFilePath()), nil
	case "redis":
		client := redisv9.NewClient(&redisv9.Options{Addr: config.GetRedisAddr()})
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
