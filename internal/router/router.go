// Package router sets up all HTTP routes and middleware chains for the
// PageSmith API. Routes are split into the public page server, the auth
// endpoints and the session-protected editor API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/handlers"
	"pagesmith/internal/middleware"
)

// Deps holds the handler groups and middleware the router wires together.
type Deps struct {
	Sessions     middleware.Sessions
	Editor       *handlers.Editor
	Auth         *handlers.Auth
	Public       *handlers.Public
	LoginLimiter *middleware.LoginLimiter // optional
	Secure       bool                     // HTTPS-only cookies
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.Secure))

		// Auth endpoints are reachable without a verified session.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if d.LoginLimiter != nil {
					r.Use(d.LoginLimiter.Middleware)
				}
				r.Post("/login", d.Auth.Login)
				r.Post("/verify", d.Auth.Verify)
			})
			r.Post("/logout", d.Auth.Logout)
			r.Get("/me", d.Auth.Status)
			r.Get("/totp.png", d.Auth.TOTPQRCode)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEditor(d.Auth.Enabled()))
			editorRoutes(r, d.Editor)
		})
	})

	r.Get("/p/{slug}", d.Public.Page)

	return r
}

func editorRoutes(r chi.Router, e *handlers.Editor) {
	r.Get("/state", e.State)
	r.Get("/section-types", e.SectionTypes)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", e.ListPages)
		r.Post("/", e.CreatePage)
		r.Post("/{id}/load", e.LoadPage)
		r.Delete("/{id}", e.DeletePage)
	})

	// The active page.
	r.Route("/page", func(r chi.Router) {
		r.Patch("/", e.UpdatePageMeta)
		r.Post("/save", e.SavePage)
		r.Patch("/brand", e.UpdateBrand)
		r.Put("/selection", e.SelectSection)
		r.Put("/dragging", e.SetDragging)

		r.Route("/sections", func(r chi.Router) {
			r.Post("/", e.AddSection)
			r.Post("/reorder", e.ReorderSections)
			r.Patch("/{id}", e.UpdateSection)
			r.Delete("/{id}", e.RemoveSection)
			r.Post("/{id}/duplicate", e.DuplicateSection)
			r.Post("/{id}/generate", e.GenerateSection)
		})

		r.Get("/export.html", e.ExportHTML)
		r.Get("/export.md", e.ExportMarkdown)
		r.Get("/export.json", e.ExportJSON)
		r.Post("/publish", e.Publish)
		r.Post("/backup", e.Backup)
	})

	r.Post("/generate/page", e.GeneratePage)
	r.Post("/generate/image", e.GenerateImage)

	r.Get("/published", e.ListPublished)
	r.Delete("/published/{slug}", e.Unpublish)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", e.Settings)
		r.Put("/", e.UpdateSettings)
		r.Get("/sticky-cta", e.StickyCTA)
		r.Put("/sticky-cta", e.UpdateStickyCTA)
		r.Put("/api-key", e.SetAPIKey)
		r.Put("/ai-provider", e.SetAIProvider)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
