package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ProfileKeyPrefix = "profile:%d"
	CareersKeyPrefix = "user:%d:careers"
	RosterKey        = "roster:dancers"
)

const (
	UserTTL    = 5 * time.Minute
	ProfileTTL = 10 * time.Minute
	CareersTTL = 2 * time.Minute
	RosterTTL  = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func CareersKey(userID uint) string {
	return fmt.Sprintf(CareersKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateCareers(ctx context.Context, userID uint) {
	Invalidate(ctx, CareersKey(userID))
}

func InvalidateRoster(ctx context.Context) {
	Invalidate(ctx, RosterKey)
}
