package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// matchCacheStore is the narrow slice of Redis the cache needs, so tests
// can run against an in-memory map.
type matchCacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type redisStore struct {
	client *redis.Client
}

func (r *redisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("matching: cache get failed: %v", err)
		return "", false
	}
	return value, true
}

func (r *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("matching: cache set failed: %v", err)
	}
}

// MatchCache stores ranked match results outside the engine, keyed by the
// request parameters and the candidate pool version so a stale pool can
// never serve stale matches. The engine itself stays stateless.
type MatchCache struct {
	store matchCacheStore
	ttl   time.Duration
}

func NewMatchCache(client *redis.Client, ttl time.Duration) *MatchCache {
	return &MatchCache{
		store: &redisStore{client: client},
		ttl:   ttl,
	}
}

// Key builds the cache key for one FindMatches invocation.
func (c *MatchCache) Key(sourceDogID string, minScore, limit int, poolVersion string) string {
	return fmt.Sprintf("matches:%s:%d:%d:%s", sourceDogID, minScore, limit, poolVersion)
}

func (c *MatchCache) GetMatches(ctx context.Context, key string) (*FindMatchesResult, bool) {
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var result FindMatchesResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}

	return &result, true
}

func (c *MatchCache) SetMatches(ctx context.Context, key string, result *FindMatchesResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.store.Set(ctx, key, string(raw), c.ttl)
}
