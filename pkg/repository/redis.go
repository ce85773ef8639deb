package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/buttg/pkg/config"
	"github.com/go-redis/redis/v8"
)

// maxCartTxRetries bounds optimistic retries when two requests race on the
// same cart key.
const maxCartTxRetries = 10

// RedisCartStorage keeps serialised carts in Redis with a sliding TTL.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

func (r *RedisCartStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns nil when nothing is stored under key.
func (r *RedisCartStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Update runs fn inside WATCH/MULTI so concurrent writers to the same cart
// never lose an update.
func (r *RedisCartStorage) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxCartTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("cart %s: too much contention", key)
}

func (r *RedisCartStorage) Close() error {
	return r.client.Close()
}
