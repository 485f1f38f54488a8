package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps a checkpoint in a Redis hash: one field per processed
// directory whose value is the newline-joined list of locations.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects to the Redis instance at url (redis://host:port/db)
// and stores the checkpoint under key.
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

// Load reads every field of the checkpoint hash.
func (s *RedisStore) Load(ctx context.Context) (*Checkpoint, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	cp := NewCheckpoint()
	for dir, joined := range fields {
		var locs []string
		if joined != "" {
			locs = strings.Split(joined, "\n")
		}
		cp.Set(dir, locs)
	}
	return cp, nil
}

// Append sets the field for dir.
func (s *RedisStore) Append(ctx context.Context, dir string, locations []string) error {
	if err := s.rdb.HSet(ctx, s.key, dir, strings.Join(locations, "\n")).Err(); err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}
	return nil
}

// Reset deletes the checkpoint hash.
func (s *RedisStore) Reset(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// Close closes the connection.
func (s *RedisStore) Close() error { return s.rdb.Close() }
