package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careboard/internal/config"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Client is the subset of Redis the service relies on.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = redis.Nil

type redisClient struct {
	client *redis.Client
}

// NewRedis connects and pings the configured Redis server.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewClient(client *redis.Client) Client {
	return &redisClient{client: client}
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *redisClient) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *redisClient) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

// ErrLocked is returned when another holder owns the lock.
var ErrLocked = errors.New("lock held by another request")

// Locker guards a critical section by key.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type redisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{locker: redislock.New(client), ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if err == redislock.ErrNotObtained {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
