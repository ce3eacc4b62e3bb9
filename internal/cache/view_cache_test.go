package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestViewKey_Hash(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		key := ViewKey{PostID: 1, SessionID: "session", Address: "10.0.0.1"}
		assert.Equal(t, key.Hash(), key.Hash())
	})

	t.Run("is prefixed and fixed length", func(t *testing.T) {
		hash := ViewKey{PostID: 1, SessionID: "s", Address: "a"}.Hash()
		assert.True(t, strings.HasPrefix(hash, "board:view:"))
		assert.Len(t, hash, len("board:view:")+64)
	})

	t.Run("distinct triples get distinct keys", func(t *testing.T) {
		keys := []ViewKey{
			{PostID: 1, SessionID: "s", Address: "a"},
			{PostID: 2, SessionID: "s", Address: "a"},
			{PostID: 1, SessionID: "t", Address: "a"},
			{PostID: 1, SessionID: "s", Address: "b"},
		}
		seen := make(map[string]bool)
		for _, k := range keys {
			seen[k.Hash()] = true
		}
		assert.Len(t, seen, len(keys))
	})

	t.Run("length prefixing blocks concatenation collisions", func(t *testing.T) {
		// without field framing both would hash "1s a" the same way
		a := ViewKey{PostID: 1, SessionID: "sa", Address: ""}
		b := ViewKey{PostID: 1, SessionID: "s", Address: "a"}
		assert.NotEqual(t, a.Hash(), b.Hash())
	})
}

func TestViewCache_Touch(t *testing.T) {
	key := ViewKey{PostID: 1, SessionID: "session", Address: "10.0.0.1"}

	t.Run("nil client counts every view", func(t *testing.T) {
		cache := NewViewCache(nil, time.Hour, zap.NewNop())
		assert.True(t, cache.Touch(context.Background(), key))
		assert.True(t, cache.Touch(context.Background(), key))
	})

	t.Run("unreachable redis fails open", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1", // nothing listens here
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer client.Close()

		cache := NewViewCache(client, time.Hour, zap.NewNop())
		assert.True(t, cache.Touch(context.Background(), key))
	})

	t.Run("zero ttl falls back to the default window", func(t *testing.T) {
		cache := NewViewCache(nil, 0, zap.NewNop())
		assert.Equal(t, time.Hour, cache.ttl)
	})
}
