// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides editor sessions identified by a secure cookie.
// Session data is stored as JSON in Valkey with TTL expiry, or in process
// memory when no Valkey is configured.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ps_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 12 * time.Hour

	// keyPrefix namespaces session keys in Valkey.
	keyPrefix = "pagesmith:session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// errMissing is returned by a backend when a session does not exist.
var errMissing = errors.New("session: missing")

// Data is the session payload.
type Data struct {
	Editor    string    `json:"editor"`
	TOTPDone  bool      `json:"totp_done"`
	CreatedAt time.Time `json:"created_at"`
}

// backend stores raw session payloads with a TTL.
type backend interface {
	get(ctx context.Context, id string) ([]byte, error)
	set(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	del(ctx context.Context, id string) error
}

// Store manages session lifecycle.
type Store struct {
	backend backend
	ttl     time.Duration
	secure  bool
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{backend: valkeyBackend{client: client}, ttl: DefaultTTL}
}

// NewMemoryStore creates a session store kept in process memory. Sessions
// do not survive a restart.
func NewMemoryStore() *Store {
	return &Store{backend: &memoryBackend{entries: make(map[string]memoryEntry)}, ttl: DefaultTTL}
}

// SetSecure marks the session cookie Secure. Enable it behind TLS.
func (s *Store) SetSecure(secure bool) { s.secure = secure }

// Create generates a new session, stores it and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}
	if err := s.backend.set(ctx, id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// Get returns the session named by the request cookie, or nil if there
// is no valid session.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	payload, err := s.backend.get(ctx, cookie.Value)
	if errors.Is(err, errMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Update replaces the session data without changing the session ID and
// resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.backend.set(ctx, cookie.Value, payload, s.ttl); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	if err := s.backend.del(ctx, cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type valkeyBackend struct {
	client *redis.Client
}

func (v valkeyBackend) get(ctx context.Context, id string) ([]byte, error) {
	b, err := v.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMissing
	}
	return b, err
}

func (v valkeyBackend) set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return v.client.Set(ctx, keyPrefix+id, payload, ttl).Err()
}

func (v valkeyBackend) del(ctx context.Context, id string) error {
	return v.client.Del(ctx, keyPrefix+id).Err()
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func (m *memoryBackend) get(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, errMissing
	}
	if time.Now().After(e.expires) {
		delete(m.entries, id)
		return nil, errMissing
	}
	return e.payload, nil
}

func (m *memoryBackend) set(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{payload: payload, expires: time.Now().Add(ttl)}
	return nil
}

func (m *memoryBackend) del(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
