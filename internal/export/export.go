// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders a page as a single self-contained HTML document,
// and derives Markdown and JSON downloads from it.
package export

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"pagesmith/internal/markdown"
	"pagesmith/internal/models"
)

// Option customises an export.
type Option func(*options)

type options struct {
	sticky *models.StickyCTA
}

// WithStickyCTA adds the floating call-to-action bar when it is enabled.
func WithStickyCTA(s models.StickyCTA) Option {
	return func(o *options) {
		if s.Enabled {
			o.sticky = &s
		}
	}
}

// HTML renders p as a complete HTML document. Sections appear in order;
// sections with unknown or malformed content render as a placeholder.
func HTML(p models.Page, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := &renderer{brand: p.Brand}
	doc := g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		h.HTML(
			h.Lang("en"),
			head(p),
			h.Body(
				h.Class("style-"+designStyle(p.Brand)),
				g.If(o.sticky != nil && o.sticky.Position == "top", r.sticky(o.sticky)),
				h.Main(g.Map(p.Ordered(), r.section)),
				g.If(o.sticky != nil && o.sticky.Position != "top", r.sticky(o.sticky)),
				analyticsBody(p.Analytics),
			),
		),
	})

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return "", fmt.Errorf("render page %s: %w", p.ID, err)
	}
	if r.err != nil {
		return "", fmt.Errorf("render page %s: %w", p.ID, r.err)
	}
	return buf.String(), nil
}

func head(p models.Page) g.Node {
	title := p.Name
	var seo models.SEO
	if p.SEO != nil {
		seo = *p.SEO
		if seo.Title != "" {
			title = seo.Title
		}
	}

	return h.Head(
		h.Meta(h.Charset("utf-8")),
		h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1.0")),
		h.TitleEl(g.Text(title)),
		g.If(seo.Description != "", h.Meta(h.Name("description"), h.Content(seo.Description))),
		g.If(seo.Keywords != "", h.Meta(h.Name("keywords"), h.Content(seo.Keywords))),
		g.If(seo.CanonicalURL != "", h.Link(h.Rel("canonical"), h.Href(seo.CanonicalURL))),
		h.Meta(g.Attr("property", "og:title"), h.Content(title)),
		g.If(seo.Description != "", h.Meta(g.Attr("property", "og:description"), h.Content(seo.Description))),
		h.Meta(g.Attr("property", "og:type"), h.Content("website")),
		g.If(seo.OGImage != "", h.Meta(g.Attr("property", "og:image"), h.Content(seo.OGImage))),
		h.Link(h.Rel("preconnect"), h.Href("https://fonts.googleapis.com")),
		h.Link(h.Rel("stylesheet"), h.Href(FontsURL(p.Brand))),
		h.StyleEl(g.Raw(stylesheet(p.Brand))),
		analyticsHead(p.Analytics),
	)
}

// FontsURL returns the Google Fonts stylesheet URL for the brand's heading
// and body fonts.
func FontsURL(b models.BrandSettings) string {
	fonts := []string{b.HeadingFont}
	if b.BodyFont != b.HeadingFont {
		fonts = append(fonts, b.BodyFont)
	}
	q := make([]string, 0, len(fonts)+1)
	for _, f := range fonts {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		q = append(q, "family="+strings.ReplaceAll(url.QueryEscape(f), "%20", "+")+":wght@400;600;700")
	}
	q = append(q, "display=swap")
	return "https://fonts.googleapis.com/css2?" + strings.Join(q, "&")
}

func designStyle(b models.BrandSettings) string {
	if b.DesignStyle == "" {
		return string(models.DesignModern)
	}
	return string(b.DesignStyle)
}

func analyticsHead(a *models.Analytics) g.Node {
	if a == nil {
		return nil
	}
	var nodes []g.Node
	if a.GTMContainerID != "" {
		nodes = append(nodes, h.Script(g.Rawf(`(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src='https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);})(window,document,'script','dataLayer',%q);`, safeID(a.GTMContainerID))))
	}
	if a.GAMeasurementID != "" {
		nodes = append(nodes,
			h.Script(g.Attr("async"), h.Src("https://www.googletagmanager.com/gtag/js?id="+url.QueryEscape(a.GAMeasurementID))),
			h.Script(g.Rawf(`window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',%q);`, safeID(a.GAMeasurementID))),
		)
	}
	if a.MetaPixelID != "" {
		nodes = append(nodes, h.Script(g.Rawf(`!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');fbq('init',%q);fbq('track','PageView');`, safeID(a.MetaPixelID))))
	}
	if a.CustomHead != "" {
		nodes = append(nodes, g.Raw(a.CustomHead))
	}
	return g.Group(nodes)
}

// safeID keeps the characters tracking ids are made of.
func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, id)
}

func analyticsBody(a *models.Analytics) g.Node {
	if a == nil || a.GTMContainerID == "" {
		return nil
	}
	return g.El("noscript",
		g.El("iframe",
			h.Src("https://www.googletagmanager.com/ns.html?id="+url.QueryEscape(a.GTMContainerID)),
			g.Attr("height", "0"), g.Attr("width", "0"),
			g.Attr("style", "display:none;visibility:hidden"),
		),
	)
}

// renderer carries the brand through section rendering and keeps the
// first Markdown conversion error.
type renderer struct {
	brand models.BrandSettings
	err   error
}

// md renders a Markdown body field.
func (r *renderer) md(class, source string) g.Node {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	out, err := markdown.ToHTML(source)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return h.Div(h.Class(class), g.Text(source))
	}
	return h.Div(h.Class(class), g.Raw(out))
}

// inline renders a short Markdown field without a wrapping paragraph.
func (r *renderer) inline(source string) g.Node {
	out, err := markdown.Inline(source)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return g.Text(source)
	}
	return g.Raw(out)
}

func (r *renderer) sticky(s *models.StickyCTA) g.Node {
	if s == nil {
		return nil
	}
	pos := "bottom"
	if s.Position == "top" {
		pos = "top"
	}
	var style []string
	if s.BackgroundColor != "" {
		style = append(style, "background:"+cssValue(s.BackgroundColor))
	}
	if s.TextColor != "" {
		style = append(style, "color:"+cssValue(s.TextColor))
	}
	return h.Div(
		h.Class("sticky-cta sticky-"+pos),
		g.If(len(style) > 0, g.Attr("style", strings.Join(style, ";"))),
		h.Span(g.Text(s.Text)),
		g.If(s.ButtonText != "", h.A(h.Class("btn"), h.Href(orHash(s.ButtonURL)), g.Text(s.ButtonText))),
	)
}
