package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"manabify/pkg/config"
)

// cacheDuration determines how long a course summary is kept before refetching
const cacheDuration = 12 * time.Hour

// Record is what a course URL resolves to: the summary text lines of the course page,
// or a marker that fetching it failed so it is not retried within the same TTL.
// Lines are stored unparsed so a change of day notation language applies to cached courses.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Summary   []string  `json:"summary,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

// Store holds at most one Record per canonical course URL
type Store interface {
	Get(ctx context.Context, url string) (Record, bool, error)
	Put(ctx context.Context, url string, rec Record) error
	Clear(ctx context.Context) error
}

// Open returns the backend selected in the config: "disk" (default), "memory" or "redis"
func Open(cfg *config.AppConfig) (Store, error) {
	switch strings.ToLower(cfg.CacheBackend) {
	case "", "disk":
		return NewDisk()
	case "memory":
		return NewMemory(), nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache backend redis requires redis_url")
		}
		return NewRedis(cfg.RedisURL, cacheDuration)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
