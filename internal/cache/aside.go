package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON reads key into dest. It reports false on a miss or when caching is off.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(s, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside returns the cached value for key, or calls fetch and caches its
// result for ttl. Cache failures never fail the call; fetch errors are
// returned unchanged and nothing is cached.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if found, err := GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	_ = SetJSON(ctx, key, v, ttl)
	return v, nil
}
