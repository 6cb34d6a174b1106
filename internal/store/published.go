package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pagesmith/internal/kvstore"
)

// Publication records where a page was last published.
type Publication struct {
	Slug        string    `json:"slug"`
	PageID      string    `json:"pageId"`
	URL         string    `json:"url"`
	ObjectKey   string    `json:"objectKey,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PublishedStore maps public slugs to pages.
type PublishedStore struct {
	kv kvstore.Store
	mu sync.Mutex // serializes read-modify-write of the registry
}

// NewPublishedStore returns a PublishedStore backed by the given key/value store.
func NewPublishedStore(kv kvstore.Store) *PublishedStore {
	return &PublishedStore{kv: kv}
}

// All returns every publication keyed by slug.
func (s *PublishedStore) All(ctx context.Context) (map[string]Publication, error) {
	pubs := make(map[string]Publication)
	if _, err := getJSON(ctx, s.kv, KeyPublished, &pubs); err != nil {
		return nil, fmt.Errorf("load publications: %w", err)
	}
	return pubs, nil
}

// BySlug returns the publication for slug.
func (s *PublishedStore) BySlug(ctx context.Context, slug string) (Publication, bool, error) {
	pubs, err := s.All(ctx)
	if err != nil {
		return Publication{}, false, err
	}
	p, ok := pubs[slug]
	return p, ok, nil
}

// Put records a publication, replacing any previous one for the same slug.
func (s *PublishedStore) Put(ctx context.Context, p Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pubs, err := s.All(ctx)
	if err != nil {
		return err
	}
	pubs[p.Slug] = p
	return setJSON(ctx, s.kv, KeyPublished, pubs)
}

// Remove deletes the publication for slug.
func (s *PublishedStore) Remove(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pubs, err := s.All(ctx)
	if err != nil {
		return err
	}
	delete(pubs, slug)
	return setJSON(ctx, s.kv, KeyPublished, pubs)
}
