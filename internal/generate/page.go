// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pagesmith/internal/models"
)

// Draft is one proposed section of a generated page.
type Draft struct {
	Type models.SectionType `json:"type"`
	Data models.Content     `json:"data"`
}

// Sequence returns the section layout proposed for a funnel stage.
// Unknown stages get the consideration layout.
func Sequence(funnelStage string) []models.SectionType {
	switch strings.ToLower(strings.TrimSpace(funnelStage)) {
	case "awareness":
		return []models.SectionType{
			models.SectionHeader, models.SectionHero, models.SectionFeatures,
			models.SectionVideo, models.SectionTestimonials, models.SectionCTA,
			models.SectionFooter,
		}
	case "conversion":
		return []models.SectionType{
			models.SectionHeader, models.SectionHero, models.SectionCredibility,
			models.SectionPricing, models.SectionTestimonials, models.SectionFAQ,
			models.SectionLeadForm, models.SectionFooter,
		}
	}
	return []models.SectionType{
		models.SectionHeader, models.SectionHero, models.SectionFeatures,
		models.SectionHowItWorks, models.SectionComparison, models.SectionTestimonials,
		models.SectionFAQ, models.SectionCTA, models.SectionFooter,
	}
}

// GeneratePage proposes a full page for brief: the section sequence for
// its funnel stage with every content section filled by the provider.
// Header and footer are derived from the brief without a provider call.
// The first failing section aborts the draft.
func (g *Generator) GeneratePage(ctx context.Context, brief models.CampaignBrief) ([]Draft, error) {
	if strings.TrimSpace(brief.BusinessName) == "" && strings.TrimSpace(brief.Description) == "" {
		return nil, ErrEmptyPrompt
	}

	if err := g.moderate(ctx, briefText(brief)); err != nil {
		return nil, err
	}

	seq := Sequence(brief.FunnelStage)
	drafts := make([]Draft, 0, len(seq))
	for _, t := range seq {
		if data, ok := fromBrief(t, brief); ok {
			drafts = append(drafts, Draft{Type: t, Data: data})
			continue
		}
		text, err := g.backend.Generate(ctx, pagePrompt(t, brief))
		if err != nil {
			return nil, fmt.Errorf("%w: %s section: %w", ErrProvider, t, err)
		}
		drafts = append(drafts, Draft{Type: t, Data: Parse(t, text)})
	}
	return drafts, nil
}

func briefText(b models.CampaignBrief) string {
	parts := []string{b.BusinessName, b.Description, b.Audience, b.Goal, b.Tone}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// fromBrief fills the header and footer directly from the brief.
func fromBrief(t models.SectionType, b models.CampaignBrief) (models.Content, bool) {
	name := strings.TrimSpace(b.BusinessName)
	if name == "" {
		return nil, false
	}
	switch t {
	case models.SectionHeader:
		h := models.DefaultContent(t).(models.HeaderContent)
		h.LogoText = name
		return h, true
	case models.SectionFooter:
		f := models.DefaultContent(t).(models.FooterContent)
		f.CompanyName = name
		f.Copyright = fmt.Sprintf("© %d %s", time.Now().Year(), name)
		return f, true
	}
	return nil, false
}
