// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slugs for published pages and
// exported file names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps the length of a generated slug.
const MaxLength = 80

var (
	// separators matches runs of whitespace, underscores and hyphens.
	separators = regexp.MustCompile(`[\s_-]+`)
	// nonSlug matches anything that isn't a lowercase letter, digit or hyphen.
	nonSlug = regexp.MustCompile(`[^a-z0-9-]`)
)

// foldLetters maps letters that do not decompose under NFD.
var foldLetters = strings.NewReplacer("ß", "ss", "æ", "ae", "ø", "o", "đ", "d", "ł", "l", "œ", "oe")

// Generate creates a URL-friendly slug from the given string. Accents are
// removed, whitespace becomes a single hyphen and everything else that is
// not a letter or digit is dropped.
// Example: "Ofertă de Primăvară 2026!" → "oferta-de-primavara-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = foldLetters.Replace(result)
	result = stripMarks(result)
	result = separators.ReplaceAllString(result, "-")
	result = nonSlug.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Unique returns the slug of s, or fallback when s has no usable
// characters, suffixed with -2, -3 … until taken reports false.
func Unique(s, fallback string, taken func(string) bool) string {
	base := Generate(s)
	if base == "" {
		base = Generate(fallback)
	}
	if base == "" {
		base = "page"
	}
	candidate := base
	for n := 2; taken(candidate); n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	return candidate
}
