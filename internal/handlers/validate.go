package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for editor inputs.
const (
	maxPageNameLen = 200
	maxPromptLen   = 4_000
	maxAPIKeyLen   = 512
	maxStickyLen   = 300
)

// validatePageName checks a page name and returns the first error found.
func validatePageName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Page name is required."
	}
	if utf8.RuneCountInString(name) > maxPageNameLen {
		return "Page name is too long (max 200 characters)."
	}
	return ""
}

// validatePrompt checks a generation prompt.
func validatePrompt(prompt string) string {
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 4,000 characters)."
	}
	return ""
}

// validateAPIKey checks a provider API key. Empty removes the key.
func validateAPIKey(key string) string {
	if len(key) > maxAPIKeyLen {
		return "API key is too long."
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return "API key must not contain whitespace."
	}
	return ""
}

// validateSticky checks the sticky CTA bar fields.
func validateSticky(text, buttonText, buttonURL, position string) string {
	if utf8.RuneCountInString(text) > maxStickyLen || utf8.RuneCountInString(buttonText) > maxStickyLen {
		return "Sticky bar text is too long (max 300 characters)."
	}
	if position != "" && position != "top" && position != "bottom" {
		return "Sticky bar position must be top or bottom."
	}
	if buttonURL != "" && !safeURL(buttonURL) {
		return "Sticky bar button URL must be http(s), mailto, tel or a fragment."
	}
	return ""
}

// safeURL accepts web, mail, phone and in-page links.
func safeURL(u string) bool {
	u = strings.ToLower(strings.TrimSpace(u))
	for _, p := range []string{"http://", "https://", "mailto:", "tel:", "#", "/"} {
		if strings.HasPrefix(u, p) {
			return !strings.HasPrefix(u, "//")
		}
	}
	return false
}
