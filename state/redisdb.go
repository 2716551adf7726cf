package state

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "swapflow:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key, "swapflow:" when empty.
	Prefix string
}

// RedisDB is a KVStore backed by redis. Batches are applied in MULTI/EXEC.
type RedisDB struct {
	client *redis.Client
	prefix string
}

func NewRedisDB(ctx context.Context, cfg *RedisConfig) (*RedisDB, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisDB{client: client, prefix: prefix}, nil
}

func (r *RedisDB) key(k string) string {
	return r.prefix + k
}

func (r *RedisDB) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(string(key))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisDB) Put(ctx context.Context, key, value []byte) error {
	return r.client.Set(ctx, r.key(string(key)), value, 0).Err()
}

func (r *RedisDB) WriteBatch(ctx context.Context, batch *Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		batch.Range(func(k string, v []byte) {
			pipe.Set(ctx, r.key(k), v, 0)
		})
		return nil
	})
	return err
}

func (r *RedisDB) Close() error {
	return r.client.Close()
}
