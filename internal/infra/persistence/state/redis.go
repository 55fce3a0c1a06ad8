package state

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:state:"

// RedisStorage keeps state entries as redis strings without expiry.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStorage connects to redis and verifies the connection.
func NewRedisStorage(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "failed to ping redis at %s", cfg.Addr)
	}

	return &RedisStorage{
		client: client,
		logger: logger,
	}, nil
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrStateNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read state %q", key)
	}

	return data, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to write state %q", key)
	}
	s.logger.Debug("[RedisState] Saved", slog.String("key", key), slog.Int("bytes", len(data)))

	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete state %q", key)
	}

	return nil
}

func (s *RedisStorage) Close() error {
	return errors.WithStack(s.client.Close())
}
