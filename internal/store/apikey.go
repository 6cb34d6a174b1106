package store

import (
	"context"
	"errors"
	"fmt"

	"pagesmith/internal/kvstore"
	"pagesmith/internal/secret"
)

// APIKeyStore keeps the user-supplied generation API key sealed at rest.
type APIKeyStore struct {
	kv     kvstore.Store
	sealer *secret.Sealer
}

// NewAPIKeyStore returns an APIKeyStore that seals values with sealer.
func NewAPIKeyStore(kv kvstore.Store, sealer *secret.Sealer) *APIKeyStore {
	return &APIKeyStore{kv: kv, sealer: sealer}
}

// Get returns the stored key, or "" when none is stored.
func (s *APIKeyStore) Get(ctx context.Context) (string, error) {
	sealed, err := s.kv.Get(ctx, KeyAPIKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load api key: %w", err)
	}
	key, err := s.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("open api key: %w", err)
	}
	return key, nil
}

// Set seals and stores the key. An empty key removes it.
func (s *APIKeyStore) Set(ctx context.Context, key string) error {
	if key == "" {
		return s.kv.Delete(ctx, KeyAPIKey)
	}
	sealed, err := s.sealer.Seal(key)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyAPIKey, sealed)
}
