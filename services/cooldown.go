package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown decides whether an (author, trigger) pair may be processed now.
// Allow records the attempt only when it is allowed, so a burst of repeats
// does not extend the window.
type Cooldown interface {
	Allow(ctx context.Context, authorID int64, trigger string) (bool, error)
}

type cooldownKey struct {
	authorID int64
	trigger  string
}

// MemoryCooldown keeps last-seen times in process memory. Entries older than
// the window are dropped by Evict.
type MemoryCooldown struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[cooldownKey]time.Time
	now    func() time.Time
}

func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	return &MemoryCooldown{
		window: window,
		seen:   make(map[cooldownKey]time.Time),
		now:    time.Now,
	}
}

func (c *MemoryCooldown) Allow(_ context.Context, authorID int64, trigger string) (bool, error) {
	key := cooldownKey{authorID: authorID, trigger: trigger}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.seen[key]; ok && now.Sub(last) < c.window {
		return false, nil
	}
	c.seen[key] = now
	return true, nil
}

// Evict removes expired entries and returns how many were dropped.
func (c *MemoryCooldown) Evict() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, last := range c.seen {
		if now.Sub(last) >= c.window {
			delete(c.seen, key)
			evicted++
		}
	}
	return evicted
}

func (c *MemoryCooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// RedisCooldown shares the window across processes with SET NX PX; Redis
// expiry handles retention.
type RedisCooldown struct {
	client *redis.Client
	window time.Duration
}

func NewRedisCooldown(client *redis.Client, window time.Duration) *RedisCooldown {
	return &RedisCooldown{client: client, window: window}
}

func (c *RedisCooldown) Allow(ctx context.Context, authorID int64, trigger string) (bool, error) {
	key := "cooldown:" + strconv.FormatInt(authorID, 10) + ":" + trigger
	ok, err := c.client.SetNX(ctx, key, 1, c.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis cooldown: %w", err)
	}
	return ok, nil
}
