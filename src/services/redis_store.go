package services

import (
	"context"
	"errors"
	"time"

	"github.com/lockroom/lockdash/src/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lockdash:"

// RedisPageStore is a PageStore shared between dashboard instances
type RedisPageStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection values
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisPageStore connects to Redis. Cached pages expire after ttl.
func NewRedisPageStore(cfg RedisConfig, ttl time.Duration) *RedisPageStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisPageStore{client: client, ttl: ttl}
}

// NewRedisPageStoreFromClient wraps an existing client
func NewRedisPageStoreFromClient(client *redis.Client, ttl time.Duration) *RedisPageStore {
	return &RedisPageStore{client: client, ttl: ttl}
}

func (s *RedisPageStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+"page:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisPageStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+"page:"+key, value, s.ttl).Err()
}

func (s *RedisPageStore) Generation(ctx context.Context, entity models.Entity) (int64, error) {
	gen, err := s.client.Get(ctx, generationKey(entity)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *RedisPageStore) Bump(ctx context.Context, entity models.Entity) (int64, error) {
	return s.client.Incr(ctx, generationKey(entity)).Result()
}

// Ping verifies Redis connectivity
func (s *RedisPageStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *RedisPageStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func generationKey(entity models.Entity) string {
	return redisKeyPrefix + "gen:" + entity.String()
}
