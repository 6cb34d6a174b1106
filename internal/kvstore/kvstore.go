// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kvstore provides durable named-entry storage: the server-side
// equivalent of browser local storage. Each entry is a string value under a
// short key. Backends exist for local files, SQL databases (PostgreSQL,
// SQLite, MySQL), Valkey and MongoDB.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("kvstore: entry not found")

// Store is a durable key/value store of string entries.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,127}$`)

// ValidateKey rejects keys that are not safe as file names and database
// identifiers.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("kvstore: invalid key %q", key)
	}
	return nil
}
