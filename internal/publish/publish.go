// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish makes exported pages publicly reachable. A published page
// is uploaded to object storage (when configured), cached by slug and
// recorded in the publish registry so /p/{slug} can serve it.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/export"
	"pagesmith/internal/models"
	"pagesmith/internal/slug"
	"pagesmith/internal/store"
)

// ErrNotPublished is returned when no page is published under a slug.
var ErrNotPublished = errors.New("publish: page not published")

// Objects is the object storage used for published pages, images and
// backups. *storage.Client implements it.
type Objects interface {
	PutPublic(ctx context.Context, key, contentType string, body []byte) (string, error)
	PutPrivate(ctx context.Context, key, contentType string, body []byte) error
	DeletePublic(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Cache holds rendered HTML by slug. *cache.HTMLCache implements it.
type Cache interface {
	Get(ctx context.Context, slug string) ([]byte, bool)
	Set(ctx context.Context, slug string, html []byte)
	Invalidate(ctx context.Context, slug string)
	InvalidateAll(ctx context.Context)
}

// Pages looks up stored pages. *document.Store implements it.
type Pages interface {
	Page(id string) (models.Page, bool)
}

// Registry records publications. *store.PublishedStore implements it.
type Registry interface {
	All(ctx context.Context) (map[string]store.Publication, error)
	BySlug(ctx context.Context, slug string) (store.Publication, bool, error)
	Put(ctx context.Context, p store.Publication) error
	Remove(ctx context.Context, slug string) error
}

// StickySource returns the sticky CTA added to every published page.
type StickySource interface {
	StickyCTA(ctx context.Context) (models.StickyCTA, error)
}

// Options configures a Publisher. Objects and Cache are optional.
type Options struct {
	Pages    Pages
	Registry Registry
	Sticky   StickySource
	Objects  Objects
	Cache    Cache
	Now      func() time.Time
}

// Publisher publishes pages and serves them back by slug.
type Publisher struct {
	pages    Pages
	registry Registry
	sticky   StickySource
	objects  Objects
	cache    Cache
	now      func() time.Time
}

// New creates a Publisher.
func New(opts Options) *Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{
		pages:    opts.Pages,
		registry: opts.Registry,
		sticky:   opts.Sticky,
		objects:  opts.Objects,
		cache:    opts.Cache,
		now:      opts.Now,
	}
}

// ObjectKey returns the storage key of a published page.
func ObjectKey(s string) string {
	return path.Join("pages", s, "index.html")
}

// Publish exports p and makes it available under a slug derived from its
// name. A page keeps its slug across republishing.
func (pub *Publisher) Publish(ctx context.Context, p models.Page) (store.Publication, error) {
	all, err := pub.registry.All(ctx)
	if err != nil {
		return store.Publication{}, fmt.Errorf("publish %s: %w", p.ID, err)
	}

	var s string
	for existing, rec := range all {
		if rec.PageID == p.ID {
			s = existing
			break
		}
	}
	if s == "" {
		s = slug.Unique(p.Name, "page-"+shortID(p.ID), func(c string) bool {
			_, ok := all[c]
			return ok
		})
	}

	html, err := pub.render(ctx, p)
	if err != nil {
		return store.Publication{}, fmt.Errorf("publish %s: %w", p.ID, err)
	}

	rec := store.Publication{
		Slug:        s,
		PageID:      p.ID,
		URL:         "/p/" + s,
		PublishedAt: pub.now().UTC().Round(0),
	}
	if pub.objects != nil {
		key := ObjectKey(s)
		u, err := pub.objects.PutPublic(ctx, key, "text/html; charset=utf-8", html)
		if err != nil {
			return store.Publication{}, fmt.Errorf("publish %s: %w", p.ID, err)
		}
		rec.URL = u
		rec.ObjectKey = key
	}

	if err := pub.registry.Put(ctx, rec); err != nil {
		return store.Publication{}, fmt.Errorf("publish %s: %w", p.ID, err)
	}
	if pub.cache != nil {
		pub.cache.Set(ctx, s, html)
	}

	slog.Info("page published", "page_id", p.ID, "slug", s, "url", rec.URL)
	return rec, nil
}

// Unpublish removes the page published under slug.
func (pub *Publisher) Unpublish(ctx context.Context, s string) error {
	rec, ok, err := pub.registry.BySlug(ctx, s)
	if err != nil {
		return fmt.Errorf("unpublish %s: %w", s, err)
	}
	if !ok {
		return ErrNotPublished
	}
	if pub.objects != nil && rec.ObjectKey != "" {
		if err := pub.objects.DeletePublic(ctx, rec.ObjectKey); err != nil {
			return fmt.Errorf("unpublish %s: %w", s, err)
		}
	}
	if err := pub.registry.Remove(ctx, s); err != nil {
		return fmt.Errorf("unpublish %s: %w", s, err)
	}
	if pub.cache != nil {
		pub.cache.Invalidate(ctx, s)
	}
	return nil
}

// Serve returns the HTML published under slug, from the cache when
// possible and otherwise by exporting the stored page again.
func (pub *Publisher) Serve(ctx context.Context, s string) ([]byte, error) {
	if pub.cache != nil {
		if html, ok := pub.cache.Get(ctx, s); ok {
			return html, nil
		}
	}

	rec, ok, err := pub.registry.BySlug(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("serve %s: %w", s, err)
	}
	if !ok {
		return nil, ErrNotPublished
	}
	p, ok := pub.pages.Page(rec.PageID)
	if !ok {
		return nil, ErrNotPublished
	}

	html, err := pub.render(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("serve %s: %w", s, err)
	}
	if pub.cache != nil {
		pub.cache.Set(ctx, s, html)
	}
	return html, nil
}

// InvalidateAll drops every cached page, for changes that affect all of
// them such as the sticky CTA.
func (pub *Publisher) InvalidateAll(ctx context.Context) {
	if pub.cache != nil {
		pub.cache.InvalidateAll(ctx)
	}
}

// StorageEnabled reports whether object storage is configured.
func (pub *Publisher) StorageEnabled() bool {
	return pub.objects != nil
}

// Backup stores the page JSON in the private bucket and returns a link
// valid for an hour.
func (pub *Publisher) Backup(ctx context.Context, p models.Page) (string, error) {
	if pub.objects == nil {
		return "", fmt.Errorf("backup %s: object storage is not configured", p.ID)
	}
	body, err := export.JSON(p)
	if err != nil {
		return "", err
	}
	key := path.Join("backups", p.ID, pub.now().UTC().Format("20060102T150405Z")+".json")
	if err := pub.objects.PutPrivate(ctx, key, "application/json", body); err != nil {
		return "", fmt.Errorf("backup %s: %w", p.ID, err)
	}
	return pub.objects.PresignedURL(ctx, key, time.Hour)
}

// UploadImage stores a generated image publicly and returns its URL.
func (pub *Publisher) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if pub.objects == nil {
		return "", fmt.Errorf("upload image: object storage is not configured")
	}
	key := path.Join("images", uuid.NewString()+extension(contentType))
	return pub.objects.PutPublic(ctx, key, contentType, data)
}

func (pub *Publisher) render(ctx context.Context, p models.Page) ([]byte, error) {
	var opts []export.Option
	if pub.sticky != nil {
		sticky, err := pub.sticky.StickyCTA(ctx)
		if err != nil {
			slog.Warn("sticky cta unavailable, publishing without it", "error", err)
		} else {
			opts = append(opts, export.WithStickyCTA(sticky))
		}
	}
	html, err := export.HTML(p, opts...)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

func extension(contentType string) string {
	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".png"
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
