// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generate turns a short user prompt into section content using
// the configured AI provider. Responses are parsed as JSON matching the
// section's content record; plain-text answers fall back to a line-based
// parse so the editor always gets something usable.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pagesmith/internal/ai"
	"pagesmith/internal/models"
)

var (
	// ErrEmptyPrompt is returned when the request carries no prompt text.
	ErrEmptyPrompt = errors.New("generate: prompt is required")

	// ErrProvider wraps failures reported by the AI provider.
	ErrProvider = errors.New("generate: provider failed")
)

// FlaggedError is returned when moderation rejects the prompt.
type FlaggedError struct {
	Categories []string
}

func (e *FlaggedError) Error() string {
	if len(e.Categories) == 0 {
		return "generate: prompt flagged by moderation"
	}
	return "generate: prompt flagged by moderation: " + strings.Join(e.Categories, ", ")
}

// Backend is the part of the AI registry the generator needs.
type Backend interface {
	Generate(ctx context.Context, p ai.Prompt) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// Request describes one section to generate.
type Request struct {
	Type   models.SectionType    `json:"type"`
	Prompt string                `json:"prompt"`
	Brief  *models.CampaignBrief `json:"brief,omitempty"`
}

// Generator produces section content through an AI backend.
type Generator struct {
	backend Backend
}

// New creates a Generator backed by b.
func New(b Backend) *Generator {
	return &Generator{backend: b}
}

// Generate asks the provider for content of req.Type. Provider errors are
// returned wrapped in ErrProvider and are not retried.
func (g *Generator) Generate(ctx context.Context, req Request) (models.Content, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("generate %q: unknown section type", req.Type)
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if err := g.moderate(ctx, prompt); err != nil {
		return nil, err
	}

	text, err := g.backend.Generate(ctx, ai.Prompt{
		System: systemPrompt(req.Type, req.Brief),
		User:   prompt,
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return Parse(req.Type, text), nil
}

// moderate fails open: a broken moderation endpoint never blocks generation.
func (g *Generator) moderate(ctx context.Context, prompt string) error {
	res, err := g.backend.CheckPrompt(ctx, prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return nil
	}
	if !res.Safe {
		return &FlaggedError{Categories: res.Categories}
	}
	return nil
}

// systemPrompt instructs the model to answer with one JSON object shaped
// like the default content of t.
func systemPrompt(t models.SectionType, brief *models.CampaignBrief) string {
	example, _ := json.Marshal(models.DefaultContent(t))

	var b strings.Builder
	fmt.Fprintf(&b, "You are a conversion copywriter building a landing page. Write the content of a %q section based on the user's request.\n\n", t)
	b.WriteString("Respond with a single JSON object and nothing else. Use exactly the keys of this example and no others:\n")
	b.Write(example)
	b.WriteString("\n\nKeep copy short and specific. Do not use placeholder text.")

	if brief != nil {
		b.WriteString("\n\nCampaign context:")
		writeField(&b, "Business", brief.BusinessName)
		writeField(&b, "Description", brief.Description)
		writeField(&b, "Audience", brief.Audience)
		writeField(&b, "Goal", brief.Goal)
		writeField(&b, "Funnel stage", brief.FunnelStage)
		writeField(&b, "Tone", brief.Tone)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		fmt.Fprintf(b, "\n- %s: %s", label, value)
	}
}

func pagePrompt(t models.SectionType, brief models.CampaignBrief) ai.Prompt {
	user := fmt.Sprintf("Write the %s section for %s.", t, orDefault(brief.BusinessName, "this business"))
	if d := strings.TrimSpace(brief.Description); d != "" {
		user += " " + d
	}
	return ai.Prompt{System: systemPrompt(t, &brief), User: user, JSON: true}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
