package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, maxAttempts int) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewLoginLimiter(rdb, maxAttempts, time.Minute), mr
}

func TestEnforceAllowsWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Enforce(ctx, "a@x.com", "10.0.0.1"))
	}
}

func TestEnforceBlocksOverBudget(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	require.NoError(t, l.Enforce(ctx, "a@x.com", "10.0.0.1"))
	require.NoError(t, l.Enforce(ctx, "a@x.com", "10.0.0.1"))

	err := l.Enforce(ctx, "a@x.com", "10.0.0.1")
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different email from a different address is unaffected.
	assert.NoError(t, l.Enforce(ctx, "b@x.com", "10.0.0.2"))
}

func TestEnforceResetsAfterWindow(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	require.NoError(t, l.Enforce(ctx, "a@x.com", ""))
	assert.ErrorIs(t, l.Enforce(ctx, "a@x.com", ""), ErrRateLimited)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, l.Enforce(ctx, "a@x.com", ""))
}
