// Package cache provides the Redis-backed view deduplication used to keep
// repeated reads of the same post from inflating its view count.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ViewKey identifies a single viewer of a single post within the dedup
// window. The session component comes from the board session cookie and the
// address from the client connection.
type ViewKey struct {
	PostID    uint
	SessionID string
	Address   string
}

// Hash renders the key as a fixed-length Redis key. Each field is length
// prefixed before hashing so distinct triples can never collide through
// concatenation.
func (k ViewKey) Hash() string {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k.PostID))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(len(k.SessionID)))
	h.Write(buf[:])
	h.Write([]byte(k.SessionID))
	binary.BigEndian.PutUint64(buf[:], uint64(len(k.Address)))
	h.Write(buf[:])
	h.Write([]byte(k.Address))
	return "board:view:" + hex.EncodeToString(h.Sum(nil))
}

// ViewTracker decides whether a read should count as a fresh view
type ViewTracker interface {
	// Touch records the view and reports whether it is the first one for
	// this key within the TTL window
	Touch(ctx context.Context, key ViewKey) bool
}

// ViewCache is the Redis implementation of ViewTracker. Every error path
// fails open: when Redis is unreachable the read proceeds and the view is
// counted, trading exact dedup for availability.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewViewCache creates a ViewCache; client may be nil when Redis is disabled
func NewViewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ViewCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ViewCache{client: client, ttl: ttl, logger: logger}
}

// Touch reports whether this is a fresh view and refreshes the key's TTL
// either way, so the window slides with continued activity
func (v *ViewCache) Touch(ctx context.Context, key ViewKey) bool {
	if v.client == nil {
		return true
	}

	hashed := key.Hash()
	exists, err := v.client.Exists(ctx, hashed).Result()
	if err != nil {
		v.logger.Warn("view cache lookup failed, counting view",
			zap.Uint("post_id", key.PostID),
			zap.Error(err))
		return true
	}

	if err := v.client.Set(ctx, hashed, 1, v.ttl).Err(); err != nil {
		v.logger.Warn("view cache write failed",
			zap.Uint("post_id", key.PostID),
			zap.Error(err))
	}

	return exists == 0
}
