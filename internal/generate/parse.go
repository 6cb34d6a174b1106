// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"encoding/json"
	"reflect"
	"strings"

	"pagesmith/internal/models"
)

// Parse converts a model response into content for t. JSON answers are
// decoded into t's record; anything else goes through parseLines.
func Parse(t models.SectionType, text string) models.Content {
	raw := extractJSON(text)
	if raw != "" {
		if c := models.DecodeContent(t, json.RawMessage(raw)); c.Kind() == t {
			return c
		}
		// Models like to add keys of their own. Keep the known ones.
		if c, ok := decodeLenient(t, raw); ok {
			return c
		}
	}
	return parseLines(t, text)
}

// extractJSON strips Markdown code fences and returns the outermost JSON
// object in text, or "" if there is none.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}

// decodeLenient decodes raw into a fresh record of t's concrete type,
// ignoring unknown fields.
func decodeLenient(t models.SectionType, raw string) (models.Content, bool) {
	zero := models.DefaultContent(t)
	if _, ok := zero.(models.RawContent); ok {
		return nil, false
	}
	ptr := reflect.New(reflect.TypeOf(zero))
	if err := json.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return nil, false
	}
	c, ok := ptr.Elem().Interface().(models.Content)
	return c, ok
}

// parseLines builds content from plain text: the first line is the
// headline, the second the subheadline, the rest body text or list items.
// Fields the text does not cover keep their default values.
func parseLines(t models.SectionType, text string) models.Content {
	lines := cleanLines(text)
	c := models.DefaultContent(t)
	if len(lines) == 0 {
		return c
	}
	first := lines[0]
	second := at(lines, 1)
	rest := lines[min(len(lines), 1):]

	switch v := c.(type) {
	case models.HeroContent:
		v.Headline = first
		v.Subheadline = second
		v.Body = strings.Join(lines[min(len(lines), 2):], "\n\n")
		return v
	case models.CTAContent:
		v.Headline = first
		v.Body = strings.Join(rest, "\n\n")
		return v
	case models.LeadFormContent:
		v.Headline = first
		v.Body = strings.Join(rest, "\n\n")
		return v
	case models.FAQContent:
		items := parseQA(lines)
		if len(items) > 0 {
			v.Items = items
		}
		return v
	case models.FeaturesContent:
		v.Title = first
		if items := rest; len(items) > 0 {
			v.Items = make([]models.FeatureItem, len(items))
			for i, it := range items {
				title, desc := splitPair(it)
				v.Items[i] = models.FeatureItem{Title: title, Description: desc}
			}
		}
		return v
	case models.HowItWorksContent:
		v.Title = first
		if items := rest; len(items) > 0 {
			v.Steps = make([]models.Step, len(items))
			for i, it := range items {
				title, desc := splitPair(it)
				v.Steps[i] = models.Step{Title: title, Description: desc}
			}
		}
		return v
	case models.TestimonialsContent:
		v.Title = first
		if items := rest; len(items) > 0 {
			v.Items = make([]models.Testimonial, len(items))
			for i, it := range items {
				quote, author := splitAttribution(it)
				v.Items[i] = models.Testimonial{Quote: quote, Author: author}
			}
		}
		return v
	case models.HeaderContent:
		v.LogoText = first
		return v
	case models.FooterContent:
		v.CompanyName = first
		v.Tagline = second
		return v
	case models.CarouselContent:
		v.Title = first
		return v
	case models.QuizContent:
		v.Title = first
		return v
	case models.VideoContent:
		v.Title = first
		v.Caption = second
		return v
	case models.CredibilityContent:
		v.Title = first
		return v
	case models.PricingContent:
		v.Title = first
		v.Subtitle = second
		return v
	case models.ComparisonContent:
		v.Title = first
		return v
	}
	return c
}

// cleanLines splits text into trimmed non-empty lines with Markdown
// heading markers, bullets and emphasis removed.
func cleanLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimLeft(line, "#")
		line = strings.TrimSpace(line)
		line = trimBullet(line)
		line = strings.Trim(line, "*_")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func trimBullet(line string) string {
	for _, p := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(line[len(p):])
		}
	}
	// "1. " and "12) "
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:])
	}
	return line
}

// splitPair splits "Title: description" or "Title - description".
func splitPair(s string) (string, string) {
	for _, sep := range []string{": ", " - ", " – "} {
		if before, after, ok := strings.Cut(s, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return s, ""
}

// splitAttribution splits `"Quote" - Author` into quote and author.
func splitAttribution(s string) (string, string) {
	quote, author := s, ""
	for _, sep := range []string{" — ", " – ", " - "} {
		if i := strings.LastIndex(s, sep); i > 0 {
			quote, author = s[:i], s[i+len(sep):]
			break
		}
	}
	return strings.Trim(strings.TrimSpace(quote), `"“”`), strings.TrimSpace(author)
}

// parseQA collects Q:/A: pairs. Without markers, lines alternate between
// question and answer.
func parseQA(lines []string) []models.FAQItem {
	var items []models.FAQItem
	marked := false
	for _, line := range lines {
		switch {
		case hasPrefixFold(line, "q:"):
			marked = true
			items = append(items, models.FAQItem{Question: strings.TrimSpace(line[2:])})
		case hasPrefixFold(line, "a:"):
			marked = true
			if len(items) == 0 {
				continue
			}
			last := &items[len(items)-1]
			last.Answer = joinNonEmpty(last.Answer, strings.TrimSpace(line[2:]))
		default:
			if marked && len(items) > 0 && items[len(items)-1].Answer != "" {
				last := &items[len(items)-1]
				last.Answer = joinNonEmpty(last.Answer, line)
			}
		}
	}
	if marked {
		return items
	}

	for i := 0; i+1 < len(lines); i += 2 {
		items = append(items, models.FAQItem{Question: lines[i], Answer: lines[i+1]})
	}
	return items
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
