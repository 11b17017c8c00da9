package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"autoapply/models"
)

// AnswerCache remembers answers per question signature so repeated questions
// across forms in one run never pay for a second AI call. An optional Redis
// layer carries answers across runs; the in-memory map is always
// authoritative for the current process.
type AnswerCache struct {
	mu      sync.RWMutex
	answers map[string]string
	rdb     *redis.Client
}

func NewAnswerCache() *AnswerCache {
	return &AnswerCache{answers: make(map[string]string)}
}

// NewAnswerCacheWithRedis layers a Redis store behind the in-memory cache.
// A bad URL just disables the layer; the cache still works locally.
func NewAnswerCacheWithRedis(redisURL string) *AnswerCache {
	c := NewAnswerCache()
	if redisURL == "" {
		return c
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, answer cache will be in-memory only: %v", err)
		return c
	}
	c.rdb = redis.NewClient(opt)
	return c
}

const redisAnswerPrefix = "autoapply:answer:"

// Get looks up a cached answer for the question. In-memory hits win; Redis
// hits are promoted into memory.
func (c *AnswerCache) Get(ctx context.Context, q models.Question) (string, bool) {
	sig := q.Signature()

	c.mu.RLock()
	answer, ok := c.answers[sig]
	c.mu.RUnlock()
	if ok {
		return answer, true
	}

	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, redisAnswerPrefix+sig).Result()
		if err == nil && val != "" {
			c.mu.Lock()
			c.answers[sig] = val
			c.mu.Unlock()
			return val, true
		}
	}
	return "", false
}

// Put stores the answer under the question's signature, in memory and (best
// effort) in Redis with a 30-day expiry.
func (c *AnswerCache) Put(ctx context.Context, q models.Question, answer string) {
	sig := q.Signature()

	c.mu.Lock()
	c.answers[sig] = answer
	c.mu.Unlock()

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, redisAnswerPrefix+sig, answer, 30*24*time.Hour).Err(); err != nil {
			log.Printf("⚠️ Redis answer store write failed: %v", err)
		}
	}
}

// Len reports the number of in-memory entries.
func (c *AnswerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.answers)
}

// Close releases the Redis connection if one was opened.
func (c *AnswerCache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
