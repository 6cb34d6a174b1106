// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/document"
	"pagesmith/internal/export"
	"pagesmith/internal/models"
	"pagesmith/internal/slug"
	"pagesmith/internal/store"
)

// exportPage returns the page named by ?page=, or the active page.
func (e *Editor) exportPage(r *http.Request) (models.Page, error) {
	if id := r.URL.Query().Get("page"); id != "" {
		p, ok := e.doc.Page(id)
		if !ok {
			return models.Page{}, fmt.Errorf("export %q: %w", id, document.ErrPageNotFound)
		}
		return p, nil
	}
	p, ok := e.doc.ActivePage()
	if !ok {
		return models.Page{}, document.ErrNoActivePage
	}
	return p, nil
}

// exportOptions adds the sticky bar to downloads the same way it is added
// to published pages.
func (e *Editor) exportOptions(r *http.Request) []export.Option {
	cta, err := e.settings.StickyCTA(r.Context())
	if err != nil {
		slog.Warn("sticky cta unavailable, exporting without it", "error", err)
		return nil
	}
	return []export.Option{export.WithStickyCTA(cta)}
}

// attachment sets a download filename derived from the page name.
func attachment(w http.ResponseWriter, p models.Page, ext string) {
	name := slug.Generate(p.Name)
	if name == "" {
		name = "landing-page"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext))
}

// ExportHTML downloads the page as a self-contained HTML document.
func (e *Editor) ExportHTML(w http.ResponseWriter, r *http.Request) {
	p, err := e.exportPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := export.HTML(p, e.exportOptions(r)...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, p, "html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

// ExportMarkdown downloads the page converted to Markdown.
func (e *Editor) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	p, err := e.exportPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := export.Markdown(p, e.exportOptions(r)...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, p, "md")
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(out))
}

// ExportJSON downloads the page as indented JSON.
func (e *Editor) ExportJSON(w http.ResponseWriter, r *http.Request) {
	p, err := e.exportPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := export.JSON(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, p, "json")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(out)
}

// Publish saves the active page and publishes the saved version.
func (e *Editor) Publish(w http.ResponseWriter, r *http.Request) {
	if err := e.doc.Save(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := e.doc.Flush(r.Context()); err != nil {
		writeError(w, r, fmt.Errorf("publish: %w", err))
		return
	}
	active, _ := e.doc.ActivePage()
	p, ok := e.doc.Page(active.ID)
	if !ok {
		writeError(w, r, fmt.Errorf("publish %q: %w", active.ID, document.ErrPageNotFound))
		return
	}

	rec, err := e.publisher.Publish(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListPublished returns every publication, newest first.
func (e *Editor) ListPublished(w http.ResponseWriter, r *http.Request) {
	all, err := e.published.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]store.Publication, 0, len(all))
	for _, rec := range all {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	writeJSON(w, http.StatusOK, out)
}

// Unpublish takes a published page offline.
func (e *Editor) Unpublish(w http.ResponseWriter, r *http.Request) {
	if err := e.publisher.Unpublish(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Backup stores the active page JSON in the private bucket and returns a
// temporary download link.
func (e *Editor) Backup(w http.ResponseWriter, r *http.Request) {
	if !e.publisher.StorageEnabled() {
		writeError(w, r, fmt.Errorf("object storage: %w", errUnavailable))
		return
	}
	p, err := e.exportPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := e.publisher.Backup(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}
