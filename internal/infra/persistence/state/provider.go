// Package state persists small named client state entries (the signed-in
// user) in a gocloud bucket or in redis.
package state

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	ProviderBlob  = "blob"
	ProviderRedis = "redis"

	defaultBucketURL = "mem://"
)

// Open selects the storage backend. Without configuration state lives in
// an in-memory bucket and is lost on exit.
func Open(ctx context.Context, cfg *config.StateConfig, logger *slog.Logger) (service.StateStorage, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("State storage not configured, using in-memory bucket")

		return NewBlobStorage(ctx, defaultBucketURL, logger)
	}

	switch cfg.Provider {
	case ProviderBlob:
		bucketURL := cfg.BucketURL
		if bucketURL == "" {
			bucketURL = defaultBucketURL
		}
		logger.Info("Using blob state storage", slog.String("bucket_url", bucketURL))

		return NewBlobStorage(ctx, bucketURL, logger)

	case ProviderRedis:
		if cfg.Redis == nil || cfg.Redis.Addr == "" {
			return nil, errors.New("redis address is required for redis provider")
		}
		logger.Info("Using redis state storage", slog.String("addr", cfg.Redis.Addr))

		return NewRedisStorage(ctx, cfg.Redis, logger)

	default:
		return nil, errors.Errorf("unknown state provider: %s", cfg.Provider)
	}
}
