// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package secret seals small values (such as the content-generation API key)
// before they are written to durable storage. Values are encrypted with
// XChaCha20-Poly1305 under a key derived from the application secret.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealedPrefix = "v1:"

// ErrInvalid is returned when a sealed value cannot be opened.
var ErrInvalid = errors.New("secret: invalid sealed value")

// Sealer encrypts and decrypts values with a fixed key.
type Sealer struct {
	key []byte
}

// NewSealer derives the encryption key from appSecret. The secret must be
// at least 16 bytes.
func NewSealer(appSecret string) (*Sealer, error) {
	if len(appSecret) < 16 {
		return nil, fmt.Errorf("secret: application secret must be at least 16 bytes")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(appSecret), nil, []byte("pagesmith sealed values"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("secret: derive key: %w", err)
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext and returns a printable sealed string.
func (s *Sealer) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("secret: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return "", ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalid
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("secret: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrInvalid
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalid
	}
	return string(plain), nil
}

// Mask returns a display form of a secret that shows only its last four
// characters.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("•", len(s))
	}
	return strings.Repeat("•", 8) + s[len(s)-4:]
}
