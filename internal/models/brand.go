// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DesignStyle is a presentational theme hint applied on top of the palette.
type DesignStyle string

const (
	DesignModern  DesignStyle = "modern"
	DesignMinimal DesignStyle = "minimal"
	DesignBold    DesignStyle = "bold"
	DesignElegant DesignStyle = "elegant"
	DesignPlayful DesignStyle = "playful"
)

// CampaignBrief is the free-form metadata captured by the setup wizard.
// It doubles as context for content generation.
type CampaignBrief struct {
	BusinessName string `json:"businessName,omitempty"`
	Description  string `json:"description,omitempty"`
	Audience     string `json:"audience,omitempty"`
	Goal         string `json:"goal,omitempty"`
	FunnelStage  string `json:"funnelStage,omitempty"` // awareness, consideration, conversion
	Tone         string `json:"tone,omitempty"`
}

// BrandSettings is the styling shared by every section of a page.
type BrandSettings struct {
	PrimaryColor    string         `json:"primaryColor"`
	SecondaryColor  string         `json:"secondaryColor"`
	AccentColor     string         `json:"accentColor"`
	TextColor       string         `json:"textColor"`
	BackgroundColor string         `json:"backgroundColor"`
	HeadingFont     string         `json:"headingFont"`
	BodyFont        string         `json:"bodyFont"`
	LogoURL         string         `json:"logoUrl,omitempty"`
	DesignStyle     DesignStyle    `json:"designStyle,omitempty"`
	Campaign        *CampaignBrief `json:"campaign,omitempty"`
}

// DefaultBrandSettings returns the palette and fonts a new page starts with.
func DefaultBrandSettings() BrandSettings {
	return BrandSettings{
		PrimaryColor:    "#2563eb",
		SecondaryColor:  "#7c3aed",
		AccentColor:     "#f59e0b",
		TextColor:       "#111827",
		BackgroundColor: "#ffffff",
		HeadingFont:     "Inter",
		BodyFont:        "Inter",
		DesignStyle:     DesignModern,
	}
}

// BrandUpdate is a partial update of BrandSettings. Nil fields are left as is.
type BrandUpdate struct {
	PrimaryColor    *string        `json:"primaryColor,omitempty"`
	SecondaryColor  *string        `json:"secondaryColor,omitempty"`
	AccentColor     *string        `json:"accentColor,omitempty"`
	TextColor       *string        `json:"textColor,omitempty"`
	BackgroundColor *string        `json:"backgroundColor,omitempty"`
	HeadingFont     *string        `json:"headingFont,omitempty"`
	BodyFont        *string        `json:"bodyFont,omitempty"`
	LogoURL         *string        `json:"logoUrl,omitempty"`
	DesignStyle     *DesignStyle   `json:"designStyle,omitempty"`
	Campaign        *CampaignBrief `json:"campaign,omitempty"`
}

// Apply shallow-merges the set fields of u into b.
func (u BrandUpdate) Apply(b *BrandSettings) {
	setIf(&b.PrimaryColor, u.PrimaryColor)
	setIf(&b.SecondaryColor, u.SecondaryColor)
	setIf(&b.AccentColor, u.AccentColor)
	setIf(&b.TextColor, u.TextColor)
	setIf(&b.BackgroundColor, u.BackgroundColor)
	setIf(&b.HeadingFont, u.HeadingFont)
	setIf(&b.BodyFont, u.BodyFont)
	setIf(&b.LogoURL, u.LogoURL)
	setIf(&b.DesignStyle, u.DesignStyle)
	if u.Campaign != nil {
		c := *u.Campaign
		b.Campaign = &c
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
