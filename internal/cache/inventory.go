package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostListKey      = "posts:all"
	LedgerKeyPrefix  = "diag:%s"
	SessionKeyPrefix = "session:%d"
	ReviewListKey    = "reviews:recent"
)

const (
	PostListTTL   = 1 * time.Minute
	ReviewListTTL = 5 * time.Minute
)

// LedgerKey is the per-device diagnosis ledger list key.
func LedgerKey(deviceID string) string {
	return fmt.Sprintf(LedgerKeyPrefix, deviceID)
}

// SessionKey holds server-side session bookkeeping for a user.
func SessionKey(userID uint) string {
	return fmt.Sprintf(SessionKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePostList drops the cached default listing after any write
// that changes a post row or one of its counters.
func InvalidatePostList(ctx context.Context) {
	Invalidate(ctx, PostListKey)
}

func InvalidateReviews(ctx context.Context) {
	Invalidate(ctx, ReviewListKey)
}
