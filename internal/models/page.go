// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"
)

// SEO holds the search and social metadata emitted in the exported <head>.
type SEO struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	OGImage      string `json:"ogImage,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
}

// Analytics holds tag-manager and tracking identifiers.
type Analytics struct {
	GAMeasurementID string `json:"gaMeasurementId,omitempty"`
	GTMContainerID  string `json:"gtmContainerId,omitempty"`
	MetaPixelID     string `json:"metaPixelId,omitempty"`
	CustomHead      string `json:"customHead,omitempty"`
}

// Page is a named, ordered collection of sections plus its brand settings.
type Page struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Sections  []Section     `json:"sections"`
	Brand     BrandSettings `json:"brand"`
	SEO       *SEO          `json:"seo,omitempty"`
	Analytics *Analytics    `json:"analytics,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	if p.Sections != nil {
		sections := make([]Section, len(p.Sections))
		for i, s := range p.Sections {
			sections[i] = s.Clone()
		}
		p.Sections = sections
	}
	if p.Brand.Campaign != nil {
		c := *p.Brand.Campaign
		p.Brand.Campaign = &c
	}
	if p.SEO != nil {
		seo := *p.SEO
		p.SEO = &seo
	}
	if p.Analytics != nil {
		a := *p.Analytics
		p.Analytics = &a
	}
	return p
}

// Ordered returns the sections sorted by Order. Ties keep slice order.
func (p Page) Ordered() []Section {
	out := make([]Section, len(p.Sections))
	copy(out, p.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Section returns the section with the given id.
func (p Page) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// PageMetaUpdate is a partial update of a page's name, SEO and analytics.
// SEO and Analytics replace the current value wholesale when set.
type PageMetaUpdate struct {
	Name      *string    `json:"name,omitempty"`
	SEO       *SEO       `json:"seo,omitempty"`
	Analytics *Analytics `json:"analytics,omitempty"`
}

// Apply merges the set fields of u into p.
func (u PageMetaUpdate) Apply(p *Page) {
	setIf(&p.Name, u.Name)
	if u.SEO != nil {
		seo := *u.SEO
		p.SEO = &seo
	}
	if u.Analytics != nil {
		a := *u.Analytics
		p.Analytics = &a
	}
}
