package handlers

import (
	"strings"
	"testing"
)

func TestValidatePageName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid", "Spring Launch", true},
		{"blank", "   ", false},
		{"max length", strings.Repeat("a", maxPageNameLen), true},
		{"too long", strings.Repeat("a", maxPageNameLen+1), false},
		{"multibyte counted as runes", strings.Repeat("ă", maxPageNameLen), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validatePageName(tt.input) == ""; got != tt.ok {
				t.Errorf("validatePageName ok = %v, want %v", got, tt.ok)
			}
		})
	}
}

func TestValidatePrompt(t *testing.T) {
	if msg := validatePrompt(strings.Repeat("p", maxPromptLen)); msg != "" {
		t.Errorf("unexpected error %q", msg)
	}
	if msg := validatePrompt(strings.Repeat("p", maxPromptLen+1)); msg == "" {
		t.Error("expected error for long prompt")
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://example.com", true},
		{"http://example.com/a?b=c", true},
		{"mailto:hi@example.com", true},
		{"tel:+40123", true},
		{"#signup", true},
		{"/pricing", true},
		{"//evil.example", false},
		{"javascript:alert(1)", false},
		{"JavaScript:alert(1)", false},
		{"data:text/html,x", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := safeURL(tt.url); got != tt.ok {
				t.Errorf("safeURL(%q) = %v, want %v", tt.url, got, tt.ok)
			}
		})
	}
}
