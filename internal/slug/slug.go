// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
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

// fallback is used when a name has no characters that survive slugging.
const fallback = "unnamed"

var (
	// nonAlphanumeric matches each run of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// apostrophes are dropped rather than turned into hyphens so that
	// "Mario's" becomes "marios".
	apostrophes = strings.NewReplacer("'", "", "’", "")
)

// Generate creates a URL-friendly slug from the given string without
// tracking collisions. Example: "Pokémon Red / Blue" → "pokemon-red-blue"
func Generate(s string) string {
	result, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))),
		s,
	)
	if err != nil {
		result = s
	}
	result = strings.ToLower(result)
	result = apostrophes.Replace(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return fallback
	}
	return result
}

// Generator issues slugs that are unique among every slug it has returned.
// The zero value is ready to use. A Generator is not safe for concurrent use.
type Generator struct {
	used map[string]bool
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{used: make(map[string]bool)}
}

// Slugify returns a slug for name. Collisions with previously issued slugs
// get a ".2", ".3", ... suffix.
func (g *Generator) Slugify(name string) string {
	if g.used == nil {
		g.used = make(map[string]bool)
	}

	s := Generate(name)
	if g.used[s] {
		n := 2
		for g.used[s+"."+strconv.Itoa(n)] {
			n++
		}
		s = s + "." + strconv.Itoa(n)
	}

	g.used[s] = true
	return s
}
