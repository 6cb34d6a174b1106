// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/publish"
)

// Public serves published pages. The publisher checks the Valkey HTML
// cache before exporting the stored page again.
type Public struct {
	publisher *publish.Publisher
}

// NewPublic creates a new Public handler group.
func NewPublic(publisher *publish.Publisher) *Public {
	return &Public{publisher: publisher}
}

// Page serves the page published under {slug}.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	html, err := p.publisher.Serve(r.Context(), s)
	if errors.Is(err, publish.ErrNotPublished) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("serve published page failed", "slug", s, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write(html)
}
