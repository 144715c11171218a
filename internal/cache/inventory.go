package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// PostsListKey prefixes the index listing; entries live under blog:list:<generation>.
	PostsListKey           = "blog:list"
	PostsListGenerationKey = "blog:list:gen"
	SessionKeyPrefix       = "session:%s"
)

const (
	PostsListTTL = time.Minute
)

// SessionKey returns the Redis key of a server-side session record.
func SessionKey(sessionID string) string {
	return fmt.Sprintf(SessionKeyPrefix, sessionID)
}

func postsListKeyFor(generation int64) string {
	return fmt.Sprintf("%s:%d", PostsListKey, generation)
}

// CurrentPostsListKey returns the listing key for the current generation.
// Callers must read it before querying the database: a listing fetched before
// a write is then stored under a generation nobody reads anymore. ok is false
// when Redis is absent or failing and the cache should be skipped.
func CurrentPostsListKey(ctx context.Context) (key string, ok bool) {
	if client == nil {
		return "", false
	}
	gen, err := client.Get(ctx, PostsListGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", false
	}
	return postsListKeyFor(gen), true
}

// Invalidate removes key; a missing client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePostsList bumps the listing generation and drops the previous entry.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	gen, err := client.Incr(ctx, PostsListGenerationKey).Result()
	if err != nil {
		return
	}
	client.Del(ctx, postsListKeyFor(gen-1))
}
