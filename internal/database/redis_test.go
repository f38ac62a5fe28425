package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()

	for _, cache := range []*Cache{nil, {}} {
		assert.False(t, cache.Enabled())
		assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

		var out string
		assert.ErrorIs(t, cache.Get(ctx, "k", &out), ErrCacheMiss)
		assert.NoError(t, cache.Invalidate(ctx, "k"))
		assert.NoError(t, cache.BlacklistToken(ctx, "jti", time.Now().Add(time.Hour)))
		assert.False(t, cache.IsTokenBlacklisted(ctx, "jti"))
		assert.NoError(t, cache.Close())
	}
}
