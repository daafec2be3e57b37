package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"toolkit/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	CategoriesKey = "catalog:categories"
	SitemapKey    = "catalog:sitemap"
)

const (
	CategoriesTTL = 10 * time.Minute
	SitemapTTL    = 30 * time.Minute
)

// Aside tries Redis first; on a miss it calls fetch, which must populate dest, and stores
// the result with ttl. Cache failures never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			observability.CacheLookups.WithLabelValues(key, "hit").Inc()
			return nil
		}
	case !errors.Is(err, redis.Nil):
		// Redis trouble: fall through to the source
	}
	observability.CacheLookups.WithLabelValues(key, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if payload, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, payload, ttl)
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateCatalog drops every cached public listing. Called after any admin write to
// categories, tags or resources.
func InvalidateCatalog(ctx context.Context) {
	Invalidate(ctx, CategoriesKey, SitemapKey)
}
