package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "session:revoked:"

// TokenBlacklist remembers revoked session token ids until they would have expired anyway.
// It prefers redis and falls back to process memory when no client is configured.
type TokenBlacklist struct {
	rc *redis.Client

	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewTokenBlacklist creates a blacklist backed by rc, or by memory when rc is nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, revoked: map[string]time.Time{}, now: time.Now}
}

// Revoke blacklists token id jti until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if b.rc != nil {
		return b.rc.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err()
	}
	b.mu.Lock()
	b.revoked[jti] = expiresAt
	b.cleanupLocked()
	b.mu.Unlock()
	return nil
}

// IsRevoked reports whether jti was revoked before its natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) bool {
	if b.rc != nil {
		n, err := b.rc.Exists(ctx, blacklistKeyPrefix+jti).Result()
		if err != nil {
			// fail open
			Sugar.Warnf("blacklist lookup failed jti=%s err=%v", jti, err)
			return false
		}
		return n > 0
	}
	b.mu.RLock()
	expiresAt, ok := b.revoked[jti]
	b.mu.RUnlock()
	return ok && b.now().Before(expiresAt)
}

func (b *TokenBlacklist) cleanupLocked() {
	now := b.now()
	for jti, exp := range b.revoked {
		if !now.Before(exp) {
			delete(b.revoked, jti)
		}
	}
}
