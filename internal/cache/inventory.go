package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	GithubKeyPrefix = "github:repos:%s"
)

const (
	UserTTL   = 5 * time.Minute
	GithubTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// GithubKey lowercases the username; GitHub logins are case-insensitive.
func GithubKey(username string) string {
	return fmt.Sprintf(GithubKeyPrefix, strings.ToLower(username))
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
