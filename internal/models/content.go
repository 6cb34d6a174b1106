// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
)

// Content is the typed payload of a section. Each section type has its own
// record; data that fits none of them is carried as RawContent.
type Content interface {
	// Kind returns the section type the record belongs to, or "" for RawContent.
	Kind() SectionType
}

// RawContent keeps section data verbatim when it does not decode into the
// record for its type. Renderers treat it as unknown content.
type RawContent struct {
	Data json.RawMessage
}

func (RawContent) Kind() SectionType { return "" }

// MarshalJSON writes the stored bytes unchanged.
func (r RawContent) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("null"), nil
	}
	return r.Data, nil
}

// Link is a label/URL pair used in navigation and footers.
type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

type HeroContent struct {
	Headline         string `json:"headline,omitempty"`
	Subheadline      string `json:"subheadline,omitempty"`
	Body             string `json:"body,omitempty"`
	CTAText          string `json:"ctaText,omitempty"`
	CTAURL           string `json:"ctaUrl,omitempty"`
	SecondaryCTAText string `json:"secondaryCtaText,omitempty"`
	SecondaryCTAURL  string `json:"secondaryCtaUrl,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
}

func (HeroContent) Kind() SectionType { return SectionHero }

type FeatureItem struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type FeaturesContent struct {
	Title    string        `json:"title,omitempty"`
	Subtitle string        `json:"subtitle,omitempty"`
	Items    []FeatureItem `json:"items"`
}

func (FeaturesContent) Kind() SectionType { return SectionFeatures }

type Testimonial struct {
	Quote     string `json:"quote,omitempty"`
	Author    string `json:"author,omitempty"`
	Role      string `json:"role,omitempty"`
	Company   string `json:"company,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Rating    int    `json:"rating,omitempty"`
}

type TestimonialsContent struct {
	Title string        `json:"title,omitempty"`
	Items []Testimonial `json:"items"`
}

func (TestimonialsContent) Kind() SectionType { return SectionTestimonials }

type FAQItem struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type FAQContent struct {
	Title string    `json:"title,omitempty"`
	Items []FAQItem `json:"items"`
}

func (FAQContent) Kind() SectionType { return SectionFAQ }

type CTAContent struct {
	Headline   string `json:"headline,omitempty"`
	Body       string `json:"body,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonURL  string `json:"buttonUrl,omitempty"`
}

func (CTAContent) Kind() SectionType { return SectionCTA }

type HeaderContent struct {
	LogoText string `json:"logoText,omitempty"`
	Links    []Link `json:"links"`
	CTAText  string `json:"ctaText,omitempty"`
	CTAURL   string `json:"ctaUrl,omitempty"`
}

func (HeaderContent) Kind() SectionType { return SectionHeader }

type FooterContent struct {
	CompanyName string `json:"companyName,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
	Links       []Link `json:"links"`
	Copyright   string `json:"copyright,omitempty"`
}

func (FooterContent) Kind() SectionType { return SectionFooter }

type Slide struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type CarouselContent struct {
	Title  string  `json:"title,omitempty"`
	Slides []Slide `json:"slides"`
}

func (CarouselContent) Kind() SectionType { return SectionCarousel }

type FormField struct {
	Name     string `json:"name,omitempty"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type,omitempty"` // text, email, tel, textarea
	Required bool   `json:"required,omitempty"`
}

type LeadFormContent struct {
	Headline       string      `json:"headline,omitempty"`
	Body           string      `json:"body,omitempty"`
	Fields         []FormField `json:"fields"`
	SubmitText     string      `json:"submitText,omitempty"`
	SuccessMessage string      `json:"successMessage,omitempty"`
}

func (LeadFormContent) Kind() SectionType { return SectionLeadForm }

type QuizQuestion struct {
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options"`
}

type QuizContent struct {
	Title      string         `json:"title,omitempty"`
	Questions  []QuizQuestion `json:"questions"`
	ResultText string         `json:"resultText,omitempty"`
}

func (QuizContent) Kind() SectionType { return SectionQuiz }

type VideoContent struct {
	Title    string `json:"title,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

func (VideoContent) Kind() SectionType { return SectionVideo }

type Stat struct {
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
}

type CredibilityContent struct {
	Title string   `json:"title,omitempty"`
	Logos []string `json:"logos"`
	Stats []Stat   `json:"stats"`
}

func (CredibilityContent) Kind() SectionType { return SectionCredibility }

type Step struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type HowItWorksContent struct {
	Title string `json:"title,omitempty"`
	Steps []Step `json:"steps"`
}

func (HowItWorksContent) Kind() SectionType { return SectionHowItWorks }

type Plan struct {
	Name        string   `json:"name,omitempty"`
	Price       string   `json:"price,omitempty"`
	Period      string   `json:"period,omitempty"`
	Features    []string `json:"features"`
	CTAText     string   `json:"ctaText,omitempty"`
	CTAURL      string   `json:"ctaUrl,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

type PricingContent struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Plans    []Plan `json:"plans"`
}

func (PricingContent) Kind() SectionType { return SectionPricing }

type ComparisonRow struct {
	Feature string   `json:"feature,omitempty"`
	Values  []string `json:"values"`
}

type ComparisonContent struct {
	Title   string          `json:"title,omitempty"`
	Columns []string        `json:"columns"`
	Rows    []ComparisonRow `json:"rows"`
}

func (ComparisonContent) Kind() SectionType { return SectionComparison }

// decoders maps each section type to a strict decoder for its record.
var decoders = map[SectionType]func(json.RawMessage) (Content, bool){
	SectionHero:         decodeStrict[HeroContent],
	SectionFeatures:     decodeStrict[FeaturesContent],
	SectionTestimonials: decodeStrict[TestimonialsContent],
	SectionFAQ:          decodeStrict[FAQContent],
	SectionCTA:          decodeStrict[CTAContent],
	SectionHeader:       decodeStrict[HeaderContent],
	SectionFooter:       decodeStrict[FooterContent],
	SectionCarousel:     decodeStrict[CarouselContent],
	SectionLeadForm:     decodeStrict[LeadFormContent],
	SectionQuiz:         decodeStrict[QuizContent],
	SectionVideo:        decodeStrict[VideoContent],
	SectionCredibility:  decodeStrict[CredibilityContent],
	SectionHowItWorks:   decodeStrict[HowItWorksContent],
	SectionPricing:      decodeStrict[PricingContent],
	SectionComparison:   decodeStrict[ComparisonContent],
}

// decodeStrict decodes a JSON object into T, rejecting unknown fields so
// nothing is lost when the record is encoded again.
func decodeStrict[T Content](raw json.RawMessage) (Content, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var v T
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

// DecodeContent turns raw section data into the record for t. Data of an
// unknown type, or data that does not match the record exactly, is
// returned as RawContent holding the compacted bytes.
func DecodeContent(t SectionType, raw json.RawMessage) Content {
	if decode, ok := decoders[t]; ok {
		if c, ok := decode(raw); ok {
			return c
		}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RawContent{}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return RawContent{Data: append(json.RawMessage(nil), trimmed...)}
	}
	return RawContent{Data: buf.Bytes()}
}

// CloneContent returns a deep copy of c.
func CloneContent(c Content) Content {
	switch v := c.(type) {
	case nil:
		return nil
	case RawContent:
		if v.Data == nil {
			return RawContent{}
		}
		return RawContent{Data: append(json.RawMessage(nil), v.Data...)}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return c
	}
	return DecodeContent(c.Kind(), raw)
}

// ConvertContent returns c as the record for t. A record of another type,
// or RawContent, is re-encoded and decoded against t; whatever does not fit
// comes back as RawContent, exactly as it would after a JSON round-trip.
func ConvertContent(t SectionType, c Content) Content {
	if c == nil || c.Kind() == t {
		return CloneContent(c)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return RawContent{}
	}
	return DecodeContent(t, raw)
}
