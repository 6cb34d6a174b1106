// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for interacting with multiple
// LLM providers (OpenAI, Gemini, Claude, Mistral). Each provider implements
// the Provider interface, and the Registry selects the active one by name.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Prompt is a single generation request.
type Prompt struct {
	System string // sets the model's behaviour
	User   string // the user's request

	// JSON asks the provider to return a single JSON object. Providers
	// without a native JSON mode rely on the system prompt alone.
	JSON bool

	// MaxTokens caps the response length. Zero uses the provider default.
	MaxTokens int
}

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	Generate(ctx context.Context, p Prompt) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	Model      string
	ModelImage string // image model, only used by providers that generate images
	BaseURL    string
}

// ProviderNames lists the built-in providers.
var ProviderNames = []string{"openai", "gemini", "claude", "mistral"}

// newProvider builds the built-in provider called name.
func newProvider(name string, cfg ProviderConfig) (Provider, error) {
	switch name {
	case "openai":
		return newOpenAI(cfg), nil
	case "gemini":
		return newGemini(cfg), nil
	case "claude":
		return newClaude(cfg), nil
	case "mistral":
		return newMistral(cfg), nil
	}
	return nil, fmt.Errorf("ai: unknown provider %q", name)
}

// Registry manages available AI providers and selects the active one.
// It supports runtime switching by changing the active provider name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	configs   map[string]ProviderConfig
	active    string
	moderator Moderator // may be nil if no moderation API is available
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are skipped until a
// key is supplied with Configure. A Moderator is configured from the OpenAI
// (free) or Mistral key when available.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		configs:   make(map[string]ProviderConfig),
		active:    active,
	}

	for name, cfg := range configs {
		r.configs[name] = cfg
		if cfg.APIKey == "" {
			continue
		}
		if p, err := newProvider(name, cfg); err == nil {
			r.providers[name] = p
		}
	}
	r.moderator = moderatorFor(r.configs)
	return r
}

// moderatorFor prefers OpenAI's free moderation endpoint and falls back to
// Mistral's, switching automatically when OpenAI rejects the key.
func moderatorFor(configs map[string]ProviderConfig) Moderator {
	openaiCfg := configs["openai"]
	mistralCfg := configs["mistral"]
	hasOpenAI := openaiCfg.APIKey != ""
	hasMistral := mistralCfg.APIKey != ""

	switch {
	case hasOpenAI && hasMistral:
		return newFallbackModerator(
			newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL),
			newMistralModerator(mistralCfg.APIKey, mistralCfg.BaseURL),
		)
	case hasOpenAI:
		return newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL)
	case hasMistral:
		return newMistralModerator(mistralCfg.APIKey, mistralCfg.BaseURL)
	}
	return nil
}

// Configure sets the API key of a built-in provider at runtime, creating or
// replacing it. The model and base URL from startup are kept. An empty key
// removes the provider.
func (r *Registry) Configure(name, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := r.configs[name]
	cfg.APIKey = apiKey
	if apiKey == "" {
		delete(r.providers, name)
		r.configs[name] = cfg
		r.moderator = moderatorFor(r.configs)
		return nil
	}
	p, err := newProvider(name, cfg)
	if err != nil {
		return err
	}
	r.providers[name] = p
	r.configs[name] = cfg
	r.moderator = moderatorFor(r.configs)
	return nil
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, p Prompt) (string, error) {
	provider, err := r.Active()
	if err != nil {
		return "", err
	}
	return provider.Generate(ctx, p)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers that have API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing or plugin-based providers).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// CheckPrompt runs the user prompt through the moderation API before
// generation. Returns a safe result if no moderator is configured.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	r.mu.RLock()
	m := r.moderator
	r.mu.RUnlock()

	if m == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return m.CheckSafety(ctx, prompt)
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
