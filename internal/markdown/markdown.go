// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts the Markdown allowed in section body fields
// into HTML using goldmark. Raw HTML in the source is escaped: section copy
// often comes from an AI provider and ends up on a public page.
package markdown

import (
	"bytes"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Inline converts a single-paragraph source and drops the surrounding
// <p> element so the result can sit inside a heading or button. Sources
// with more than one block are returned as ToHTML renders them.
func Inline(source string) (string, error) {
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(out)
	inner, ok := strings.CutPrefix(trimmed, "<p>")
	if !ok {
		return out, nil
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return out, nil
	}
	return inner, nil
}
