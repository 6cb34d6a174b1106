// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pagesmith/internal/ai"
	"pagesmith/internal/models"
)

// mockBackend records prompts and replies with canned text.
type mockBackend struct {
	reply      string
	replies    map[models.SectionType]string
	err        error
	moderation *ai.ModerationResult
	modErr     error
	prompts    []ai.Prompt
}

func (m *mockBackend) Generate(_ context.Context, p ai.Prompt) (string, error) {
	m.prompts = append(m.prompts, p)
	if m.err != nil {
		return "", m.err
	}
	for t, r := range m.replies {
		if strings.Contains(p.User, string(t)+" section") {
			return r, nil
		}
	}
	return m.reply, nil
}

func (m *mockBackend) CheckPrompt(context.Context, string) (*ai.ModerationResult, error) {
	if m.modErr != nil {
		return nil, m.modErr
	}
	if m.moderation != nil {
		return m.moderation, nil
	}
	return &ai.ModerationResult{Safe: true}, nil
}

func TestGenerate_JSONResponse(t *testing.T) {
	b := &mockBackend{reply: "```json\n{\"headline\":\"Fresh bread daily\",\"subheadline\":\"Baked at dawn\",\"ctaText\":\"Order\"}\n```"}
	g := New(b)

	c, err := g.Generate(context.Background(), Request{
		Type:   models.SectionHero,
		Prompt: "a bakery in Cluj",
		Brief:  &models.CampaignBrief{Audience: "commuters", Tone: "warm"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	hero, ok := c.(models.HeroContent)
	if !ok {
		t.Fatalf("got %T, want HeroContent", c)
	}
	if hero.Headline != "Fresh bread daily" || hero.CTAText != "Order" {
		t.Errorf("hero = %+v", hero)
	}

	p := b.prompts[0]
	if !p.JSON {
		t.Error("prompt should request JSON")
	}
	for _, want := range []string{`"hero"`, "headline", "Audience: commuters", "Tone: warm"} {
		if !strings.Contains(p.System, want) {
			t.Errorf("system prompt missing %q:\n%s", want, p.System)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		backend *mockBackend
		req     Request
		check   func(error) bool
	}{
		{
			name:    "unknown type",
			backend: &mockBackend{},
			req:     Request{Type: "banner", Prompt: "x"},
			check:   func(err error) bool { return err != nil },
		},
		{
			name:    "empty prompt",
			backend: &mockBackend{},
			req:     Request{Type: models.SectionHero, Prompt: "  "},
			check:   func(err error) bool { return errors.Is(err, ErrEmptyPrompt) },
		},
		{
			name:    "provider failure",
			backend: &mockBackend{err: errors.New("quota exceeded")},
			req:     Request{Type: models.SectionHero, Prompt: "x"},
			check: func(err error) bool {
				return errors.Is(err, ErrProvider) && strings.Contains(err.Error(), "quota exceeded")
			},
		},
		{
			name:    "flagged",
			backend: &mockBackend{moderation: &ai.ModerationResult{Categories: []string{"violence"}}},
			req:     Request{Type: models.SectionHero, Prompt: "x"},
			check: func(err error) bool {
				var fe *FlaggedError
				return errors.As(err, &fe) && fe.Categories[0] == "violence"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.backend).Generate(context.Background(), tt.req)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGenerate_ModerationFailsOpen(t *testing.T) {
	b := &mockBackend{modErr: errors.New("moderation down"), reply: `{"headline":"Still here"}`}
	c, err := New(b).Generate(context.Background(), Request{Type: models.SectionCTA, Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c.(models.CTAContent).Headline != "Still here" {
		t.Errorf("got %+v", c)
	}
}

func TestParse_LenientJSON(t *testing.T) {
	c := Parse(models.SectionCTA, `Sure! {"headline":"Go","buttonText":"Now","emoji":"🚀"}`)
	cta, ok := c.(models.CTAContent)
	if !ok {
		t.Fatalf("got %T", c)
	}
	if cta.Headline != "Go" || cta.ButtonText != "Now" {
		t.Errorf("cta = %+v", cta)
	}
}

func TestParse_LineFallback(t *testing.T) {
	t.Run("hero", func(t *testing.T) {
		text := "# Fresh bread daily\nBaked at dawn, delivered by eight\n\nSourdough, rye and seeded loaves.\nFree delivery downtown."
		hero := Parse(models.SectionHero, text).(models.HeroContent)
		if hero.Headline != "Fresh bread daily" {
			t.Errorf("Headline = %q", hero.Headline)
		}
		if hero.Subheadline != "Baked at dawn, delivered by eight" {
			t.Errorf("Subheadline = %q", hero.Subheadline)
		}
		if hero.Body != "Sourdough, rye and seeded loaves.\n\nFree delivery downtown." {
			t.Errorf("Body = %q", hero.Body)
		}
		if hero.CTAText == "" {
			t.Error("CTA text should keep its default")
		}
	})

	t.Run("faq markers", func(t *testing.T) {
		text := "Q: Do you deliver?\nA: Yes, downtown.\nQ: Gluten free?\nA: Two loaves are.\nAsk us for details."
		faq := Parse(models.SectionFAQ, text).(models.FAQContent)
		if len(faq.Items) != 2 {
			t.Fatalf("items = %+v", faq.Items)
		}
		if faq.Items[0].Question != "Do you deliver?" || faq.Items[0].Answer != "Yes, downtown." {
			t.Errorf("item 0 = %+v", faq.Items[0])
		}
		if faq.Items[1].Answer != "Two loaves are. Ask us for details." {
			t.Errorf("item 1 answer = %q", faq.Items[1].Answer)
		}
	})

	t.Run("faq alternating", func(t *testing.T) {
		faq := Parse(models.SectionFAQ, "Do you deliver?\nYes.\nOpen Sundays?\nNo.").(models.FAQContent)
		if len(faq.Items) != 2 || faq.Items[1].Question != "Open Sundays?" || faq.Items[1].Answer != "No." {
			t.Errorf("items = %+v", faq.Items)
		}
	})

	t.Run("features list", func(t *testing.T) {
		text := "Why us\n- Fast: ready in minutes\n- Local - sourced nearby\n3. Fair"
		f := Parse(models.SectionFeatures, text).(models.FeaturesContent)
		if f.Title != "Why us" || len(f.Items) != 3 {
			t.Fatalf("features = %+v", f)
		}
		want := []models.FeatureItem{
			{Title: "Fast", Description: "ready in minutes"},
			{Title: "Local", Description: "sourced nearby"},
			{Title: "Fair"},
		}
		for i, w := range want {
			if f.Items[i] != w {
				t.Errorf("item %d = %+v, want %+v", i, f.Items[i], w)
			}
		}
	})

	t.Run("testimonials", func(t *testing.T) {
		tm := Parse(models.SectionTestimonials, "Loved by locals\n\"Best rye in town\" - Ana").(models.TestimonialsContent)
		if len(tm.Items) != 1 || tm.Items[0].Quote != "Best rye in town" || tm.Items[0].Author != "Ana" {
			t.Errorf("items = %+v", tm.Items)
		}
	})

	t.Run("empty text keeps defaults", func(t *testing.T) {
		c := Parse(models.SectionPricing, "   ")
		if _, ok := c.(models.PricingContent); !ok {
			t.Errorf("got %T", c)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`Here you go: {"a":{"b":2}} enjoy`, `{"a":{"b":2}}`},
		{`no json here`, ``},
		{`{broken`, ``},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeneratePage(t *testing.T) {
	b := &mockBackend{
		reply: "Generic headline",
		replies: map[models.SectionType]string{
			models.SectionHero: `{"headline":"Bread, done right"}`,
		},
	}
	brief := models.CampaignBrief{BusinessName: "Crumb", Description: "Neighbourhood bakery", FunnelStage: "conversion"}

	drafts, err := New(b).GeneratePage(context.Background(), brief)
	if err != nil {
		t.Fatalf("GeneratePage: %v", err)
	}

	seq := Sequence("conversion")
	if len(drafts) != len(seq) {
		t.Fatalf("got %d drafts, want %d", len(drafts), len(seq))
	}
	for i, d := range drafts {
		if d.Type != seq[i] {
			t.Errorf("draft %d type = %s, want %s", i, d.Type, seq[i])
		}
		if d.Data.Kind() != d.Type {
			t.Errorf("draft %d data kind = %q, want %q", i, d.Data.Kind(), d.Type)
		}
	}
	if drafts[0].Data.(models.HeaderContent).LogoText != "Crumb" {
		t.Errorf("header = %+v", drafts[0].Data)
	}
	if drafts[1].Data.(models.HeroContent).Headline != "Bread, done right" {
		t.Errorf("hero = %+v", drafts[1].Data)
	}
	// Header and footer come from the brief.
	if len(b.prompts) != len(seq)-2 {
		t.Errorf("provider calls = %d, want %d", len(b.prompts), len(seq)-2)
	}
}

func TestGeneratePage_Errors(t *testing.T) {
	if _, err := New(&mockBackend{}).GeneratePage(context.Background(), models.CampaignBrief{}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("empty brief: %v", err)
	}
	b := &mockBackend{err: errors.New("down")}
	if _, err := New(b).GeneratePage(context.Background(), models.CampaignBrief{BusinessName: "X"}); !errors.Is(err, ErrProvider) {
		t.Errorf("provider failure: %v", err)
	}
}

func TestSequenceDefaultsToConsideration(t *testing.T) {
	got := Sequence("something else")
	want := Sequence("consideration")
	if len(got) != len(want) || got[0] != models.SectionHeader || got[len(got)-1] != models.SectionFooter {
		t.Errorf("Sequence = %v", got)
	}
}
