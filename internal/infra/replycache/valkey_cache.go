package replycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/uphill-chatbot/internal/domain/chat"
)

// ValkeyCache persists replies in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "chat"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements chat.ReplyCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (chat.CachedReply, bool, error) {
	if key == "" {
		return chat.CachedReply{}, false, nil
	}
	result := c.client.Do(ctx, c.client.B().Get().Key(c.replyKey(key)).Build())
	payload, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return chat.CachedReply{}, false, nil
		}
		return chat.CachedReply{}, false, err
	}
	var reply chat.CachedReply
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return chat.CachedReply{}, false, err
	}
	return reply, true, nil
}

// Put implements chat.ReplyCache.
func (c *ValkeyCache) Put(ctx context.Context, reply chat.CachedReply, ttl time.Duration) error {
	if reply.Key == "" {
		return nil
	}
	payload, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.replyKey(reply.Key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) replyKey(key string) string {
	return fmt.Sprintf("%s:reply:%s", c.prefix, key)
}

var _ chat.ReplyCache = (*ValkeyCache)(nil)
