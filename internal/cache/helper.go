package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "profile:%d"
	browseKey        = "opportunities:active"
	viewBufferPrefix = "views:profile:%d"
)

// TTLs tuned for read-heavy browse traffic; profile snapshots refresh on
// every write through Invalidate.
const (
	ProfileTTL = 5 * time.Minute
	BrowseTTL  = 1 * time.Minute
)

// ProfileKey returns the cache key for a profile snapshot.
func ProfileKey(profileID uint) string {
	return fmt.Sprintf(profileKeyPrefix, profileID)
}

// BrowseKey returns the cache key for the active-opportunity browse list.
func BrowseKey(limit, offset int) string {
	return fmt.Sprintf("%s:%d:%d", browseKey, limit, offset)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
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

// Aside tries Redis first; on miss it calls fetch (which must write into
// dest) and stores the result with ttl. Cache failures fall through to
// the fetch so a broken Redis never blocks reads.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key. Safe to call without a client.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile removes a profile snapshot from the cache.
func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

// InvalidateBrowse removes all cached browse pages.
func InvalidateBrowse(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, browseKey+":*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// BufferProfileView accumulates a profile view in Redis so hot profiles
// do not turn every render into a database write. Returns false when no
// client is available and the caller should write through directly.
func BufferProfileView(ctx context.Context, profileID uint) bool {
	if client == nil {
		return false
	}
	key := fmt.Sprintf(viewBufferPrefix, profileID)
	if err := client.Incr(ctx, key).Err(); err != nil {
		return false
	}
	client.Expire(ctx, key, 24*time.Hour)
	return true
}

// DrainProfileViews pops the buffered view count for a profile, returning
// how many views should be flushed to the database.
func DrainProfileViews(ctx context.Context, profileID uint) int {
	if client == nil {
		return 0
	}
	key := fmt.Sprintf(viewBufferPrefix, profileID)
	n, err := client.GetDel(ctx, key).Int()
	if err != nil {
		return 0
	}
	return n
}
