// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // flagged category names, sorted (empty when safe)
}

// Moderator checks user prompts for policy violations before sending
// them to AI generation endpoints.
type Moderator interface {
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// httpModerator calls an OpenAI-style moderations endpoint. OpenAI and
// Mistral share the request shape; only Mistral omits the top-level
// "flagged" field, so categories are always inspected.
type httpModerator struct {
	label   string
	apiKey  string
	url     string
	model   string
	client  *http.Client
	display func(category string) string
}

// newOpenAIModerator creates a moderator that uses OpenAI's free moderation API.
func newOpenAIModerator(apiKey, baseURL string) *httpModerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &httpModerator{
		label:  "openai moderation",
		apiKey: apiKey,
		url:    baseURL + "/moderations",
		model:  "omni-moderation-latest",
		client: &http.Client{Timeout: 15 * time.Second},
		// "hate/threatening" reads as "hate (threatening)".
		display: func(cat string) string {
			if before, after, ok := strings.Cut(cat, "/"); ok {
				cat = before + " (" + after + ")"
			}
			return strings.ReplaceAll(cat, "_", " ")
		},
	}
}

// newMistralModerator creates a moderator using Mistral's moderation endpoint.
func newMistralModerator(apiKey, baseURL string) *httpModerator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &httpModerator{
		label:   "mistral moderation",
		apiKey:  apiKey,
		url:     baseURL + "/moderations",
		model:   "mistral-moderation-latest",
		client:  &http.Client{Timeout: 15 * time.Second},
		display: func(cat string) string { return strings.ReplaceAll(cat, "_", " ") },
	}
}

func (m *httpModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	var result moderationResponse
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}
	body := moderationRequest{Model: m.model, Input: text}
	if err := postJSON(ctx, m.client, m.label, m.url, headers, body, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	var flagged []string
	for cat, isFlagged := range result.Results[0].Categories {
		if isFlagged {
			flagged = append(flagged, m.display(cat))
		}
	}
	sort.Strings(flagged)

	return &ModerationResult{
		Safe:       len(flagged) == 0,
		Categories: flagged,
	}, nil
}

// fallbackModerator tries primary first and switches to secondary for good
// once primary rejects its credentials.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	res, err := f.primary.CheckSafety(ctx, text)
	if err == nil {
		return res, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		slog.Warn("primary moderator rejected credentials, using fallback", "error", err)
		return f.secondary.CheckSafety(ctx, text)
	}
	return nil, err
}

// --- Request/Response types ---

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}
