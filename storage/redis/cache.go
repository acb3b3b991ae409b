// Package redis implements storage.VectorCache on Redis, so that several
// aligner processes can share the vectors they have already fetched.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to every key written by a VectorCache.
const DefaultPrefix = "sapphire:vec:"

// VectorCache implements storage.VectorCache with one Redis string per vector.
type VectorCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ storage.VectorCache = (*VectorCache)(nil)

// Option configures a VectorCache.
type Option func(*VectorCache) error

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *VectorCache) error {
		if prefix == "" {
			return errors.New("prefix cannot be empty")
		}
		c.prefix = prefix
		return nil
	}
}

// WithTTL expires cached vectors after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *VectorCache) error {
		if ttl < 0 {
			return errors.New("ttl cannot be negative")
		}
		c.ttl = ttl
		return nil
	}
}

// New creates a VectorCache on client. The cache takes ownership of the
// client and closes it on Close.
func New(client *redis.Client, opts ...Option) (*VectorCache, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	c := &VectorCache{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.Default().With("component", "redis-vectors"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Dial connects to the Redis server at addr and creates a VectorCache on it.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*VectorCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	c, err := New(client, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

func (c *VectorCache) key(id core.ID) string {
	return c.prefix + strconv.FormatUint(uint64(id), 16)
}

// GetVectors fetches ids with a single MGET.
func (c *VectorCache) GetVectors(ctx context.Context, ids ...core.ID) (map[core.ID][]float32, error) {
	found := make(map[core.ID][]float32, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		vector, err := storage.UnmarshalVector([]byte(s))
		if err != nil {
			c.logger.Warn("dropping undecodable vector", "key", keys[i], "err", err)
			continue
		}
		found[ids[i]] = vector
	}
	return found, nil
}

// PutVectors writes vectors in one pipeline.
func (c *VectorCache) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, vector := range vectors {
			pipe.Set(ctx, c.key(id), storage.MarshalVector(vector), c.ttl)
		}
		return nil
	})
	return err
}

// Close closes the underlying client.
func (c *VectorCache) Close() error {
	return c.client.Close()
}
