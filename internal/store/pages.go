// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pagesmith/internal/document"
	"pagesmith/internal/kvstore"
	"pagesmith/internal/models"
)

// PageStore persists the page collection as one JSON array. It implements
// document.PageRepository.
type PageStore struct {
	kv kvstore.Store
}

// NewPageStore returns a PageStore backed by the given key/value store.
func NewPageStore(kv kvstore.Store) *PageStore {
	return &PageStore{kv: kv}
}

// LoadPages returns the stored collection, or an empty one when nothing has
// been saved yet. Undecodable data is reported as document.ErrCorruptState.
func (s *PageStore) LoadPages(ctx context.Context) ([]models.Page, error) {
	raw, err := s.kv.Get(ctx, KeyPages)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []models.Page{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	var pages []models.Page
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", KeyPages, document.ErrCorruptState, err)
	}
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}

// SavePages replaces the stored collection.
func (s *PageStore) SavePages(ctx context.Context, pages []models.Page) error {
	if pages == nil {
		pages = []models.Page{}
	}
	return setJSON(ctx, s.kv, KeyPages, pages)
}
