// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides typed access to the durable entries kept in a
// kvstore: the page collection, editor settings, the sticky call-to-action
// configuration, the sealed generation API key and the publish registry.
// Each entry is an independent JSON or plain-string value.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pagesmith/internal/kvstore"
)

// Entry names in the key/value store.
const (
	KeyPages     = "landing-pages"
	KeyAPIKey    = "ai-api-key"
	KeyStickyCTA = "sticky-cta"
	KeySettings  = "app-settings"
	KeyPublished = "published-pages"
)

// getJSON decodes the entry at key into dst. It reports false when the
// entry does not exist.
func getJSON(ctx context.Context, kv kvstore.Store, key string, dst any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b))
}
