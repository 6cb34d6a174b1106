package models

// StickyCTA configures the floating call-to-action bar added to exports.
type StickyCTA struct {
	Enabled         bool   `json:"enabled"`
	Text            string `json:"text,omitempty"`
	ButtonText      string `json:"buttonText,omitempty"`
	ButtonURL       string `json:"buttonUrl,omitempty"`
	Position        string `json:"position,omitempty"` // "top" or "bottom"
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

// AppSettings holds editor-wide preferences.
type AppSettings struct {
	ThemeColor       string `json:"themeColor"`
	AutosaveSeconds  int    `json:"autosaveSeconds"`
	ActiveAIProvider string `json:"activeAiProvider,omitempty"`
}

// DefaultAppSettings returns the settings used before any are stored.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		ThemeColor:      "#2563eb",
		AutosaveSeconds: 30,
	}
}
