// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders run comments, which may be written in Markdown,
// into HTML. Raw HTML in a comment is dropped rather than passed through,
// since comments come from an untrusted spreadsheet.
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
		extension.GFM,         // tables, strikethrough, autolinks
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML and links with
// unsafe schemes such as javascript: are omitted.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToInlineHTML is like ToHTML but unwraps a lone paragraph, so a one-line
// comment can sit inside a table cell.
func ToInlineHTML(source string) (string, error) {
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)

	inner, ok := strings.CutPrefix(out, "<p>")
	if !ok {
		return out, nil
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return out, nil
	}
	return inner, nil
}
