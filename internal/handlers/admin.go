// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the pagesmith JSON API.
// Handlers are grouped by concern (editor, auth, public) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/ai"
	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/models"
	"pagesmith/internal/publish"
	"pagesmith/internal/store"
)

// Editor groups the editor API handlers and their dependencies.
type Editor struct {
	doc       *document.Store
	generator *generate.Generator
	registry  *ai.Registry
	publisher *publish.Publisher
	settings  *store.SettingStore
	apiKeys   *store.APIKeyStore
	published *store.PublishedStore
}

// EditorDeps lists the collaborators of an Editor. Registry and Generator
// may be nil when no AI provider is configured; generation endpoints then
// answer 503.
type EditorDeps struct {
	Document  *document.Store
	Generator *generate.Generator
	Registry  *ai.Registry
	Publisher *publish.Publisher
	Settings  *store.SettingStore
	APIKeys   *store.APIKeyStore
	Published *store.PublishedStore
}

// NewEditor creates a new Editor handler group.
func NewEditor(d EditorDeps) *Editor {
	return &Editor{
		doc:       d.Document,
		generator: d.Generator,
		registry:  d.Registry,
		publisher: d.Publisher,
		settings:  d.Settings,
		apiKeys:   d.APIKeys,
		published: d.Published,
	}
}

// State returns a snapshot of the whole editor state.
func (e *Editor) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.doc.Snapshot())
}

// SectionTypes lists the section palette with each type's default content.
func (e *Editor) SectionTypes(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Type    models.SectionType `json:"type"`
		Default models.Content     `json:"default"`
	}
	types := models.SectionTypes()
	out := make([]entry, len(types))
	for i, t := range types {
		out[i] = entry{Type: t, Default: models.DefaultContent(t)}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Pages ---

// ListPages returns the saved page collection.
func (e *Editor) ListPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.doc.Pages())
}

// CreatePage creates an empty page and makes it the active page.
func (e *Editor) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePageName(req.Name); msg != "" {
		writeError(w, r, badRequest("%s", msg))
		return
	}

	p := e.doc.CreatePage(strings.TrimSpace(req.Name))
	slog.Info("page created", "page_id", p.ID, "name", p.Name)
	writeJSON(w, http.StatusCreated, p)
}

// LoadPage makes a saved page the active page.
func (e *Editor) LoadPage(w http.ResponseWriter, r *http.Request) {
	if err := e.doc.LoadPage(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	e.writeActive(w, r)
}

// DeletePage removes a page from the collection and unpublishes it.
func (e *Editor) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := e.doc.DeletePage(id); err != nil {
		writeError(w, r, err)
		return
	}
	e.unpublishPage(r, id)
	slog.Info("page deleted", "page_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// unpublishPage drops any publication of a deleted page. Failures are
// logged; the page itself is already gone.
func (e *Editor) unpublishPage(r *http.Request, pageID string) {
	if e.published == nil || e.publisher == nil {
		return
	}
	all, err := e.published.All(r.Context())
	if err != nil {
		slog.Warn("list publications failed", "page_id", pageID, "error", err)
		return
	}
	for s, rec := range all {
		if rec.PageID != pageID {
			continue
		}
		if err := e.publisher.Unpublish(r.Context(), s); err != nil {
			slog.Warn("unpublish deleted page failed", "slug", s, "error", err)
		}
	}
}

// SavePage copies the active page into the collection and persists it.
func (e *Editor) SavePage(w http.ResponseWriter, r *http.Request) {
	if err := e.doc.Save(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := e.doc.Flush(r.Context()); err != nil {
		writeError(w, r, fmt.Errorf("save page: %w", err))
		return
	}
	e.writeActive(w, r)
}

// UpdatePageMeta renames the active page or replaces its SEO/analytics.
func (e *Editor) UpdatePageMeta(w http.ResponseWriter, r *http.Request) {
	var u models.PageMetaUpdate
	if err := readJSON(w, r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	if u.Name != nil {
		if msg := validatePageName(*u.Name); msg != "" {
			writeError(w, r, badRequest("%s", msg))
			return
		}
		name := strings.TrimSpace(*u.Name)
		u.Name = &name
	}
	if err := e.doc.UpdatePageMeta(u); err != nil {
		writeError(w, r, err)
		return
	}
	e.writeActive(w, r)
}

// UpdateBrand merges brand settings into the active page.
func (e *Editor) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	var u models.BrandUpdate
	if err := readJSON(w, r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	if err := e.doc.UpdateBrandSettings(u); err != nil {
		writeError(w, r, err)
		return
	}
	e.writeActive(w, r)
}

// writeActive responds with the active page.
func (e *Editor) writeActive(w http.ResponseWriter, r *http.Request) {
	p, ok := e.doc.ActivePage()
	if !ok {
		writeError(w, r, document.ErrNoActivePage)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Sections ---

// AddSection appends a section to the active page. Without data the
// type's default content is used.
func (e *Editor) AddSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type models.SectionType `json:"type"`
		Data json.RawMessage    `json:"data"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var data models.Content
	if len(req.Data) > 0 && string(req.Data) != "null" {
		data = models.DecodeContent(req.Type, req.Data)
	}
	sec, err := e.doc.AddSection(req.Type, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

// UpdateSection changes a section's type, data or style. The store decodes
// data against the section's resulting type.
func (e *Editor) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Type  *models.SectionType  `json:"type"`
		Data  json.RawMessage      `json:"data"`
		Style *models.SectionStyle `json:"style"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u := document.SectionUpdate{Type: req.Type, Style: req.Style}
	if len(req.Data) > 0 && string(req.Data) != "null" {
		u.Data = models.RawContent{Data: req.Data}
	}
	if err := e.doc.UpdateSection(id, u); err != nil {
		writeError(w, r, err)
		return
	}
	e.writeSection(w, r, id)
}

// RemoveSection deletes a section from the active page.
func (e *Editor) RemoveSection(w http.ResponseWriter, r *http.Request) {
	if err := e.doc.RemoveSection(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateSection appends a copy of a section to the active page.
func (e *Editor) DuplicateSection(w http.ResponseWriter, r *http.Request) {
	sec, err := e.doc.DuplicateSection(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

// ReorderSections moves the section at index from to index to.
func (e *Editor) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, r, badRequest("from and to are required"))
		return
	}
	if err := e.doc.ReorderSections(*req.From, *req.To); err != nil {
		writeError(w, r, err)
		return
	}
	e.writeActive(w, r)
}

// SelectSection sets or clears the selected section.
func (e *Editor) SelectSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SectionID string `json:"sectionId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e.doc.SelectSection(req.SectionID)
	writeJSON(w, http.StatusOK, map[string]string{"selectedSectionId": e.doc.SelectedSection()})
}

// SetDragging records whether a drag gesture is in progress.
func (e *Editor) SetDragging(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dragging bool `json:"dragging"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e.doc.SetDragging(req.Dragging)
	writeJSON(w, http.StatusOK, map[string]bool{"dragging": e.doc.Dragging()})
}

// writeSection responds with one section of the active page.
func (e *Editor) writeSection(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := e.doc.ActivePage()
	if !ok {
		writeError(w, r, document.ErrNoActivePage)
		return
	}
	sec, ok := p.Section(id)
	if !ok {
		writeError(w, r, fmt.Errorf("section %q: %w", id, document.ErrSectionNotFound))
		return
	}
	writeJSON(w, http.StatusOK, sec)
}
