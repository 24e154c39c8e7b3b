// Package cache provides the member list cache backends.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"membership/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "membership"

// redisMemberListCache versions data keys by the namespace generation counter.
// Invalidation bumps the counter, which orphans every older entry, and also
// deletes the keys tracked in the namespace index set.
type redisMemberListCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisMemberListCache wraps an existing redis client.
func NewRedisMemberListCache(client redis.UniversalClient, prefix string) service.MemberListCache {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &redisMemberListCache{
		client: client,
		prefix: prefix,
	}
}

func (c *redisMemberListCache) Generation(ctx context.Context, namespace string) (int64, error) {
	generation, err := c.client.Get(ctx, c.generationKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get generation")
	}

	return generation, nil
}

func (c *redisMemberListCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	generation, err := c.Generation(ctx, namespace)
	if err != nil {
		return nil, false, err
	}

	value, err := c.client.Get(ctx, c.dataKey(namespace, key, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}

	return value, true, nil
}

// Set writes value under generation. A generation that has since been
// invalidated is written to a key Get no longer reads, and expires with ttl.
func (c *redisMemberListCache) Set(ctx context.Context, namespace, key string, generation int64, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	dataKey := c.dataKey(namespace, key, generation)
	indexKey := c.indexKey(namespace)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, dataKey, value, ttl)
	pipe.SAdd(ctx, indexKey, dataKey)
	pipe.Expire(ctx, indexKey, ttl+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redis set")
	}

	return nil
}

func (c *redisMemberListCache) InvalidateNamespace(ctx context.Context, namespace string) error {
	indexKey := c.indexKey(namespace)

	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrap(err, "redis smembers")
	}

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, c.generationKey(namespace))
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redis invalidate")
	}

	return nil
}

func (c *redisMemberListCache) dataKey(namespace, key string, generation int64) string {
	return fmt.Sprintf("%s:data:%s:%d:%s", c.prefix, namespaceToken(namespace), generation, hashToken(key))
}

func (c *redisMemberListCache) generationKey(namespace string) string {
	return fmt.Sprintf("%s:gen:%s", c.prefix, namespaceToken(namespace))
}

func (c *redisMemberListCache) indexKey(namespace string) string {
	return fmt.Sprintf("%s:index:%s", c.prefix, namespaceToken(namespace))
}

func namespaceToken(v string) string {
	if v == "" {
		return "default"
	}

	return v
}

func hashToken(v string) string {
	sum := sha256.Sum256([]byte(v))

	return hex.EncodeToString(sum[:])
}
