package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	FeedbackKeyPrefix = "feedback:%d"

	// feedbackListVersionKey versions the list cache; bumping it on any
	// mutation orphans every cached page, which then expires by TTL.
	feedbackListVersionKey = "feedback:list:ver"
)

const (
	UserTTL         = 5 * time.Minute
	FeedbackTTL     = 2 * time.Minute
	FeedbackListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FeedbackKey(feedbackID uint) string {
	return fmt.Sprintf(FeedbackKeyPrefix, feedbackID)
}

// FeedbackListKey returns the cache key for a page of the feedback list.
// The key embeds the current list version so invalidation is a single INCR.
func FeedbackListKey(ctx context.Context, category string, limit, offset int) string {
	ver := "0"
	if client != nil {
		if v, err := client.Get(ctx, feedbackListVersionKey).Result(); err == nil {
			ver = v
		}
	}
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("feedback:list:%s:%s:%d:%d", ver, category, limit, offset)
}

// InvalidateFeedbackList bumps the list version, orphaning all cached pages.
func InvalidateFeedbackList(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, feedbackListVersionKey)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateFeedback(ctx context.Context, feedbackID uint) {
	Invalidate(ctx, FeedbackKey(feedbackID))
}
