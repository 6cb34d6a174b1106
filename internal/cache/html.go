// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// htmlKeyPrefix is the Valkey key prefix for published page HTML.
	htmlKeyPrefix = "pagesmith:html:"

	// DefaultHTMLTTL is how long a published page stays cached.
	DefaultHTMLTTL = 10 * time.Minute
)

// HTMLCache keeps exported page HTML in Valkey keyed by public slug so
// /p/{slug} can skip the export. Errors are logged and treated as misses.
type HTMLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHTMLCache creates a cache backed by the given Valkey client.
func NewHTMLCache(client *redis.Client, ttl time.Duration) *HTMLCache {
	if ttl == 0 {
		ttl = DefaultHTMLTTL
	}
	return &HTMLCache{client: client, ttl: ttl}
}

// Get returns the cached HTML for slug.
func (c *HTMLCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	val, err := c.client.Get(ctx, htmlKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("html cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("html cache hit", "slug", slug)
	return val, true
}

// Set stores the HTML for slug with the configured TTL.
func (c *HTMLCache) Set(ctx context.Context, slug string, html []byte) {
	if err := c.client.Set(ctx, htmlKeyPrefix+slug, html, c.ttl).Err(); err != nil {
		slog.Warn("html cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes the HTML for slug.
func (c *HTMLCache) Invalidate(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, htmlKeyPrefix+slug).Err(); err != nil {
		slog.Warn("html cache invalidate error", "slug", slug, "error", err)
		return
	}
	slog.Debug("html cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached page. Used when the sticky CTA
// changes, since it is part of every published page.
func (c *HTMLCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, htmlKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("html cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("html cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("html cache cleared", "deleted", deleted)
	}
}
