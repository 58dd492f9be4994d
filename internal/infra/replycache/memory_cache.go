package replycache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
	"github.com/yanqian/uphill-chatbot/pkg/util"
)

const defaultMaxEntries = 1024

type cachedEntry struct {
	payload   chat.CachedReply
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache is an in-process reply cache bounded by entry count.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]cachedEntry
	maxEntries int
	now        util.Clock
}

// NewMemoryCache constructs a cache holding at most maxEntries replies.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]cachedEntry),
		maxEntries: maxEntries,
		now:        util.NowUTC,
	}
}

// Get implements chat.ReplyCache.
func (c *MemoryCache) Get(_ context.Context, key string) (chat.CachedReply, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return chat.CachedReply{}, false, nil
	}
	if util.Expired(entry.expiresAt, c.now()) {
		delete(c.entries, key)
		return chat.CachedReply{}, false, nil
	}
	return entry.payload, true, nil
}

// Put stores the reply with an optional TTL.
func (c *MemoryCache) Put(_ context.Context, reply chat.CachedReply, ttl time.Duration) error {
	if reply.Key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	if _, exists := c.entries[reply.Key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[reply.Key] = cachedEntry{payload: reply, storedAt: now, expiresAt: exp}
	return nil
}

// size reports how many replies are held, expired ones included.
func (c *MemoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries, or the oldest one when none expired.
func (c *MemoryCache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	removed := false
	for key, entry := range c.entries {
		if util.Expired(entry.expiresAt, now) {
			delete(c.entries, key)
			removed = true
			continue
		}
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey, oldestAt = key, entry.storedAt
		}
	}
	if !removed && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

var _ chat.ReplyCache = (*MemoryCache)(nil)
