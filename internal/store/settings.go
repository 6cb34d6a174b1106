package store

import (
	"context"
	"fmt"

	"pagesmith/internal/kvstore"
	"pagesmith/internal/models"
)

// SettingStore manages the editor settings and the sticky call-to-action
// configuration.
type SettingStore struct {
	kv kvstore.Store
}

// NewSettingStore returns a SettingStore backed by the given key/value store.
func NewSettingStore(kv kvstore.Store) *SettingStore {
	return &SettingStore{kv: kv}
}

// App returns the stored settings merged over the defaults.
func (s *SettingStore) App(ctx context.Context) (models.AppSettings, error) {
	settings := models.DefaultAppSettings()
	if _, err := getJSON(ctx, s.kv, KeySettings, &settings); err != nil {
		return models.DefaultAppSettings(), fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// SetApp stores the settings.
func (s *SettingStore) SetApp(ctx context.Context, settings models.AppSettings) error {
	if settings.AutosaveSeconds < 1 {
		return fmt.Errorf("autosave interval must be at least one second")
	}
	return setJSON(ctx, s.kv, KeySettings, settings)
}

// StickyCTA returns the stored configuration, disabled when none is stored.
func (s *SettingStore) StickyCTA(ctx context.Context) (models.StickyCTA, error) {
	cta := models.StickyCTA{Position: "bottom"}
	if _, err := getJSON(ctx, s.kv, KeyStickyCTA, &cta); err != nil {
		return models.StickyCTA{}, fmt.Errorf("load sticky cta: %w", err)
	}
	return cta, nil
}

// SetStickyCTA stores the configuration.
func (s *SettingStore) SetStickyCTA(ctx context.Context, cta models.StickyCTA) error {
	if cta.Position != "" && cta.Position != "top" && cta.Position != "bottom" {
		return fmt.Errorf("sticky cta position must be top or bottom, got %q", cta.Position)
	}
	return setJSON(ctx, s.kv, KeyStickyCTA, cta)
}
