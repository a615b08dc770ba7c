package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist_Memory(t *testing.T) {
	ctx := context.Background()
	b := NewTokenBlacklist(nil)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.False(t, b.IsRevoked(ctx, "a"))
	require.NoError(t, b.Revoke(ctx, "a", now.Add(time.Minute)))
	require.True(t, b.IsRevoked(ctx, "a"))
	require.False(t, b.IsRevoked(ctx, "b"))

	// already expired tokens are not stored
	require.NoError(t, b.Revoke(ctx, "old", now.Add(-time.Second)))
	require.False(t, b.IsRevoked(ctx, "old"))

	now = now.Add(2 * time.Minute)
	require.False(t, b.IsRevoked(ctx, "a"))

	require.NoError(t, b.Revoke(ctx, "c", now.Add(time.Minute)))
	b.mu.RLock()
	_, kept := b.revoked["a"]
	b.mu.RUnlock()
	require.False(t, kept)
}
