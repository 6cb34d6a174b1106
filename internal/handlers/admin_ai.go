// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/models"
)

// --- AI generation endpoints ---
//
// Section generation runs in the request goroutine with the request
// context. The result is applied through a ticket so that a response for a
// page the editor has navigated away from, or a section removed in the
// meantime, is discarded instead of written into the wrong place.

// GenerateSection fills one section of the active page from a prompt.
func (e *Editor) GenerateSection(w http.ResponseWriter, r *http.Request) {
	if e.generator == nil {
		writeError(w, r, fmt.Errorf("content generation: %w", errUnavailable))
		return
	}

	id := chi.URLParam(r, "id")
	var req struct {
		Prompt string                `json:"prompt"`
		Brief  *models.CampaignBrief `json:"brief"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}

	p, ok := e.doc.ActivePage()
	if !ok {
		writeError(w, r, document.ErrNoActivePage)
		return
	}
	sec, ok := p.Section(id)
	if !ok {
		writeError(w, r, fmt.Errorf("generate %q: %w", id, document.ErrSectionNotFound))
		return
	}
	brief := req.Brief
	if brief == nil {
		brief = p.Brand.Campaign
	}

	ticket, err := e.doc.BeginGeneration(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer e.doc.EndGeneration(ticket)

	content, err := e.generator.Generate(r.Context(), generate.Request{
		Type:   sec.Type,
		Prompt: req.Prompt,
		Brief:  brief,
	})
	if err != nil {
		slog.Warn("section generation failed", "section_id", id, "type", sec.Type, "error", err)
		writeError(w, r, err)
		return
	}

	if err := e.doc.ApplyGenerated(ticket, content); err != nil {
		slog.Info("generated content discarded", "section_id", id, "error", err)
		writeError(w, r, err)
		return
	}
	e.writeSection(w, r, id)
}

// GeneratePage drafts a whole page from a campaign brief and opens it as
// the active page. Nothing is created when generation fails.
func (e *Editor) GeneratePage(w http.ResponseWriter, r *http.Request) {
	if e.generator == nil {
		writeError(w, r, fmt.Errorf("content generation: %w", errUnavailable))
		return
	}

	var req struct {
		Name  string               `json:"name"`
		Brief models.CampaignBrief `json:"brief"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePrompt(req.Brief.Description); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Brief.BusinessName)
	}
	if name == "" {
		name = "Generated page"
	}
	if msg := validatePageName(name); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}

	drafts, err := e.generator.GeneratePage(r.Context(), req.Brief)
	if err != nil {
		slog.Warn("page generation failed", "error", err)
		writeError(w, r, err)
		return
	}

	p := e.doc.CreatePage(name)
	brief := req.Brief
	if err := e.doc.UpdateBrandSettings(models.BrandUpdate{Campaign: &brief}); err != nil {
		writeError(w, r, err)
		return
	}
	for _, d := range drafts {
		if _, err := e.doc.AddSection(d.Type, d.Data); err != nil {
			writeError(w, r, err)
			return
		}
	}
	slog.Info("page generated", "page_id", p.ID, "sections", len(drafts))

	active, _ := e.doc.ActivePage()
	writeJSON(w, http.StatusCreated, active)
}

// GenerateImage creates an image from a prompt with the active provider
// and uploads it to the public bucket.
func (e *Editor) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, r, generate.ErrEmptyPrompt)
		return
	}
	if msg := validatePrompt(prompt); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}

	if e.publisher == nil || !e.publisher.StorageEnabled() {
		writeError(w, r, fmt.Errorf("object storage: %w", errUnavailable))
		return
	}
	if e.registry == nil || !e.registry.SupportsImageGeneration() {
		writeError(w, r, fmt.Errorf("image generation: %w", errUnavailable))
		return
	}

	if !e.checkPromptSafety(w, r, prompt) {
		return
	}

	img, contentType, err := e.registry.GenerateImage(r.Context(), prompt)
	if err != nil {
		slog.Error("ai generate image failed", "error", err)
		writeError(w, r, fmt.Errorf("%w: %w", generate.ErrProvider, err))
		return
	}

	u, err := e.publisher.UploadImage(r.Context(), img, contentType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("image generated", "url", u, "bytes", len(img))
	writeJSON(w, http.StatusCreated, map[string]string{"url": u})
}

// checkPromptSafety runs the prompt through moderation. It fails open when
// the moderation API is unreachable.
func (e *Editor) checkPromptSafety(w http.ResponseWriter, r *http.Request, prompt string) bool {
	result, err := e.registry.CheckPrompt(r.Context(), prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return true
	}
	if result.Safe {
		return true
	}
	slog.Warn("prompt flagged by moderation", "categories", strings.Join(result.Categories, ", "))
	writeError(w, r, &generate.FlaggedError{Categories: result.Categories})
	return false
}
