package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"pagesmith/internal/ai"
	"pagesmith/internal/models"
	"pagesmith/internal/secret"
)

// AIStatus describes the generation setup without revealing the key.
type AIStatus struct {
	Active          string   `json:"active"`
	Available       []string `json:"available"`
	Providers       []string `json:"providers"`
	ImageGeneration bool     `json:"imageGeneration"`
	APIKey          string   `json:"apiKey,omitempty"` // masked
}

type settingsResponse struct {
	App     models.AppSettings `json:"app"`
	AI      AIStatus           `json:"ai"`
	Storage bool               `json:"storage"`
}

// Settings returns the editor settings and the AI provider status.
func (e *Editor) Settings(w http.ResponseWriter, r *http.Request) {
	app, err := e.settings.App(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := e.aiStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		App:     app,
		AI:      status,
		Storage: e.publisher != nil && e.publisher.StorageEnabled(),
	})
}

// UpdateSettings stores the theme color and autosave interval. The active
// provider is changed through SetAIProvider. A new autosave interval takes
// effect on the next start.
func (e *Editor) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThemeColor      *string `json:"themeColor"`
		AutosaveSeconds *int    `json:"autosaveSeconds"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	app, err := e.settings.App(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ThemeColor != nil {
		app.ThemeColor = strings.TrimSpace(*req.ThemeColor)
	}
	if req.AutosaveSeconds != nil {
		if *req.AutosaveSeconds < 1 || *req.AutosaveSeconds > 3600 {
			writeError(w, r, badRequest("autosaveSeconds must be between 1 and 3600"))
			return
		}
		app.AutosaveSeconds = *req.AutosaveSeconds
	}
	if err := e.settings.SetApp(r.Context(), app); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// StickyCTA returns the sticky call-to-action bar settings.
func (e *Editor) StickyCTA(w http.ResponseWriter, r *http.Request) {
	cta, err := e.settings.StickyCTA(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cta)
}

// UpdateStickyCTA replaces the sticky bar settings. Every cached published
// page is invalidated because the bar is part of each one.
func (e *Editor) UpdateStickyCTA(w http.ResponseWriter, r *http.Request) {
	var cta models.StickyCTA
	if err := readJSON(w, r, &cta); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateSticky(cta.Text, cta.ButtonText, cta.ButtonURL, cta.Position); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}
	if err := e.settings.SetStickyCTA(r.Context(), cta); err != nil {
		writeError(w, r, err)
		return
	}
	if e.publisher != nil {
		e.publisher.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, cta)
}

// SetAPIKey stores the generation API key sealed and configures the
// provider it belongs to. An empty key removes it.
func (e *Editor) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	if e.registry == nil {
		writeError(w, r, fmt.Errorf("ai providers: %w", errUnavailable))
		return
	}
	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"apiKey"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if msg := validateAPIKey(key); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}
	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = e.registry.ActiveName()
	}
	if !slices.Contains(ai.ProviderNames, provider) {
		writeError(w, r, badRequest("unknown provider %q", provider))
		return
	}

	if err := e.apiKeys.Set(r.Context(), key); err != nil {
		writeError(w, r, err)
		return
	}
	if err := e.registry.Configure(provider, key); err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	if key != "" {
		if err := e.activate(r, provider); err != nil {
			writeError(w, r, err)
			return
		}
	}
	slog.Info("ai api key updated", "provider", provider, "removed", key == "")

	status, err := e.aiStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// SetAIProvider switches the active provider and remembers the choice.
func (e *Editor) SetAIProvider(w http.ResponseWriter, r *http.Request) {
	if e.registry == nil {
		writeError(w, r, fmt.Errorf("ai providers: %w", errUnavailable))
		return
	}
	var req struct {
		Provider string `json:"provider"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Provider)
	if name == "" {
		writeError(w, r, badRequest("provider is required"))
		return
	}
	if err := e.activate(r, name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		writeError(w, r, err)
		return
	}
	slog.Info("ai provider switched", "provider", name)

	status, err := e.aiStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// activate makes name the active provider and persists it in the app
// settings.
func (e *Editor) activate(r *http.Request, name string) error {
	if err := e.registry.SetActive(name); err != nil {
		return badRequest("%v", err)
	}
	app, err := e.settings.App(r.Context())
	if err != nil {
		return err
	}
	app.ActiveAIProvider = name
	return e.settings.SetApp(r.Context(), app)
}

func (e *Editor) aiStatus(r *http.Request) (AIStatus, error) {
	status := AIStatus{Providers: ai.ProviderNames, Available: []string{}}
	if e.registry != nil {
		status.Active = e.registry.ActiveName()
		status.Available = e.registry.Available()
		status.ImageGeneration = e.registry.SupportsImageGeneration()
	}
	if e.apiKeys != nil {
		key, err := e.apiKeys.Get(r.Context())
		if err != nil {
			return AIStatus{}, err
		}
		if key != "" {
			status.APIKey = secret.Mask(key)
		}
	}
	return status, nil
}
