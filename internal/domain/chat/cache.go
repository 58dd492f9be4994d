package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// ReplyCache stores answered replies so identical questions skip the model.
type ReplyCache interface {
	Get(ctx context.Context, key string) (CachedReply, bool, error)
	Put(ctx context.Context, reply CachedReply, ttl time.Duration) error
}

// CacheKey derives the cache key for a computed answer. Messages that only
// differ in case, spacing or punctuation share a key.
func CacheKey(entryID string, result float64, message string) string {
	h := sha256.New()
	h.Write([]byte(entryID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(result, 'f', 2, 64)))
	h.Write([]byte{0})
	h.Write([]byte(normalizeMessage(message)))
	return hex.EncodeToString(h.Sum(nil))
}
