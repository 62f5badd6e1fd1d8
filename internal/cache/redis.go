package cache

import (
	"context"
	"time"

	"github.com/mutazsaeed/fitzy/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore backs the cache with a shared Redis instance so replicas
// reuse each other's report computations.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStore(cfg config.Config, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisStore{
		client: client,
		log:    logger.Named("cache.redis"),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisStore) Del(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Warn("cache del failed", zap.String("key", key), zap.Error(err))
	}
}
