package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL is how long a record survives in Redis; yesterday's
// schedule must still be readable as a fallback.
const DefaultRedisTTL = 48 * time.Hour

// RedisStore shares cached schedules between processes through Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string // key prefix, default "salah:times:"
	TTL      time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewRedisStoreFromClient(rdb, opts.Prefix, opts.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "salah:times:"
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(city string) string {
	return s.prefix + strings.ToLower(strings.TrimSpace(city))
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, city string) (*Record, error) {
	val, err := s.rdb.Get(ctx, s.key(city)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", city, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("corrupt redis record for %s: %w", city, err)
	}
	return &rec, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if rec.City == "" {
		return errors.New("cache record has no city")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(rec.City), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", rec.City, err)
	}
	return nil
}

// Delete removes the record for city.
func (s *RedisStore) Delete(ctx context.Context, city string) error {
	return s.rdb.Del(ctx, s.key(city)).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
