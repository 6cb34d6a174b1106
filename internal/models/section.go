// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the landing-page document: pages, their ordered
// sections with typed content, and the brand settings shared by a page.
// The JSON encoding of these types is the durable storage format.
package models

import (
	"encoding/json"
	"fmt"
)

// SectionType tags a section with one of the fixed building blocks.
type SectionType string

const (
	SectionHero         SectionType = "hero"
	SectionFeatures     SectionType = "features"
	SectionTestimonials SectionType = "testimonials"
	SectionFAQ          SectionType = "faq"
	SectionCTA          SectionType = "cta"
	SectionHeader       SectionType = "header"
	SectionFooter       SectionType = "footer"
	SectionCarousel     SectionType = "carousel"
	SectionLeadForm     SectionType = "lead-form"
	SectionQuiz         SectionType = "quiz"
	SectionVideo        SectionType = "video"
	SectionCredibility  SectionType = "credibility"
	SectionHowItWorks   SectionType = "how-it-works"
	SectionPricing      SectionType = "pricing"
	SectionComparison   SectionType = "comparison"
)

// sectionTypes lists every type in palette order.
var sectionTypes = []SectionType{
	SectionHeader,
	SectionHero,
	SectionFeatures,
	SectionHowItWorks,
	SectionTestimonials,
	SectionCredibility,
	SectionCarousel,
	SectionVideo,
	SectionPricing,
	SectionComparison,
	SectionFAQ,
	SectionQuiz,
	SectionLeadForm,
	SectionCTA,
	SectionFooter,
}

// SectionTypes returns all known section types in palette order.
func SectionTypes() []SectionType {
	out := make([]SectionType, len(sectionTypes))
	copy(out, sectionTypes)
	return out
}

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	for _, st := range sectionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// ParseSectionType converts a string into a known SectionType.
func ParseSectionType(s string) (SectionType, error) {
	t := SectionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown section type %q", s)
	}
	return t, nil
}

// SectionStyle holds optional per-section overrides of the brand styling.
// The zero value means "inherit everything".
type SectionStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	AccentColor     string `json:"accentColor,omitempty"`
	PaddingTop      string `json:"paddingTop,omitempty"`
	PaddingBottom   string `json:"paddingBottom,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	FullWidth       bool   `json:"fullWidth,omitempty"`
}

// IsZero reports whether no override is set.
func (s SectionStyle) IsZero() bool {
	return s == SectionStyle{}
}

// Section is one content block of a page. Order is the display rank and is
// kept dense (0..N-1) by the document store.
type Section struct {
	ID    string       `json:"id"`
	Type  SectionType  `json:"type"`
	Order int          `json:"order"`
	Data  Content      `json:"data"`
	Style SectionStyle `json:"style"`
}

// sectionJSON is the wire shape of Section with the content left undecoded.
type sectionJSON struct {
	ID    string          `json:"id"`
	Type  SectionType     `json:"type"`
	Order int             `json:"order"`
	Data  json.RawMessage `json:"data"`
	Style SectionStyle    `json:"style"`
}

// MarshalJSON writes the content under "data" as a plain object.
func (s Section) MarshalJSON() ([]byte, error) {
	data := s.Data
	if data == nil {
		data = RawContent{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s section data: %w", s.Type, err)
	}
	return json.Marshal(sectionJSON{
		ID:    s.ID,
		Type:  s.Type,
		Order: s.Order,
		Data:  raw,
		Style: s.Style,
	})
}

// UnmarshalJSON decodes "data" into the content record for the section's
// type. Data that does not fit is kept verbatim as RawContent.
func (s *Section) UnmarshalJSON(b []byte) error {
	var w sectionJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.ID = w.ID
	s.Type = w.Type
	s.Order = w.Order
	s.Style = w.Style
	s.Data = DecodeContent(w.Type, w.Data)
	return nil
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	s.Data = CloneContent(s.Data)
	return s
}
