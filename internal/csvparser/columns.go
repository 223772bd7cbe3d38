// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvparser

import (
	"fmt"
	"regexp"
	"strings"
)

// role is the meaning of a column, recognized from its header text.
type role int

const (
	roleCategory role = iota
	roleValue
	roleMain
	roleSum
	rolePlatform
	roleVersion
	roleEmulator
	roleDate
	roleComment
	roleLink
)

// roles lists the column patterns in the order they are tried. A header
// cell takes the first role it matches.
var roles = []struct {
	role    role
	name    string
	pattern *regexp.Regexp
}{
	{roleCategory, "category", regexp.MustCompile(`(?i)^(cat|seg)\.?$|^(category|chart|game|segment|split)$`)},
	{roleValue, "value", regexp.MustCompile(`(?i)points|score|time|value|^(gt|igt|jrta|pb|rt|rta|ta)$`)},
	{roleMain, "main", regexp.MustCompile(`(?i)^main$`)},
	{roleSum, "sum", regexp.MustCompile(`(?i)^sums?$`)},
	{rolePlatform, "platform", regexp.MustCompile(`(?i)^(con|plat|sys)\.?$|^(console|platform|system)$`)},
	{roleVersion, "version", regexp.MustCompile(`(?i)^(reg|ver)\.?$|^(region|version)$`)},
	{roleEmulator, "emulator", regexp.MustCompile(`(?i)^(emu)\.?$|^(emulator)$`)},
	{roleDate, "date", regexp.MustCompile(`(?i)date`)},
	{roleComment, "comment", regexp.MustCompile(`(?i)^(detail|comment|note)s?$`)},
	{roleLink, "link", regexp.MustCompile(`(?i)^(img|vid)\.?$|^(image|link|proof|url|video|vod)$`)},
}

func rolePattern(r role) *regexp.Regexp {
	return roles[r].pattern
}

// columns is the layout of a sheet, taken from its header row. Category
// and value columns may repeat; every other role uses its first column.
type columns struct {
	category   []int
	value      []int
	valueNames []string
	single     map[role]int
}

// classifyHeader matches every cell of row against the role table. It
// reports whether any cell was recognized, along with a message for each
// single-role column that was ignored because an earlier one had the same
// role.
func classifyHeader(row []string) (*columns, bool, []string) {
	cols := &columns{single: make(map[role]int)}
	recognized := false
	var duplicates []string

	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		r, ok := matchRole(cell)
		if !ok {
			continue
		}
		recognized = true

		switch r {
		case roleCategory:
			cols.category = append(cols.category, i)
		case roleValue:
			cols.value = append(cols.value, i)
			cols.valueNames = append(cols.valueNames, cell)
		default:
			if _, taken := cols.single[r]; taken {
				duplicates = append(duplicates, fmt.Sprintf("Ignoring duplicate %s column: %s", roles[r].name, cell))
				continue
			}
			cols.single[r] = i
		}
	}
	return cols, recognized, duplicates
}

func matchRole(cell string) (role, bool) {
	for _, r := range roles {
		if r.pattern.MatchString(cell) {
			return r.role, true
		}
	}
	return 0, false
}

// isHeader reports whether row repeats the header: every configured column
// holds text matching its own role.
func (c *columns) isHeader(row []string) bool {
	match := func(r role, i int) bool {
		return i < len(row) && rolePattern(r).MatchString(strings.TrimSpace(row[i]))
	}
	for _, i := range c.category {
		if !match(roleCategory, i) {
			return false
		}
	}
	for _, i := range c.value {
		if !match(roleValue, i) {
			return false
		}
	}
	for r, i := range c.single {
		if !match(r, i) {
			return false
		}
	}
	return true
}

// cell returns the trimmed text of a single-role column, or "" when the
// sheet has no such column.
func (c *columns) cell(row []string, r role) string {
	i, ok := c.single[r]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c *columns) has(r role) bool {
	_, ok := c.single[r]
	return ok
}
