// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"strconv"

	"pbcsv/internal/slug"
)

// UnknownYear is the name of the bucket for runs without a date.
const UnknownYear = "Unknown"

// Year groups runs by the year of their date.
type Year struct {
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	Runs []RunID `json:"runs"`
}

// AddToYear files a run under the year of its date, or under UnknownYear
// when it has none, creating the bucket on first use.
func (t *Tree) AddToYear(id RunID) {
	name := UnknownYear
	if y := t.Runs[id].Date.Year(); y != 0 {
		name = strconv.Itoa(y)
	}

	if t.years == nil {
		t.years = make(map[string]int)
	}
	i, ok := t.years[name]
	if !ok {
		i = len(t.Years)
		t.Years = append(t.Years, Year{Name: name, Slug: slug.Generate(name)})
		t.years[name] = i
	}
	t.Years[i].Runs = append(t.Years[i].Runs, id)
}

// FindYear returns the year bucket with the given slug.
func (t *Tree) FindYear(s string) (*Year, bool) {
	for i := range t.Years {
		if t.Years[i].Slug == s {
			return &t.Years[i], true
		}
	}
	return nil, false
}

// SortYears orders buckets newest first with UnknownYear last, and each
// bucket's runs by date, newest first, with undated runs last. Runs with
// equal dates keep their sheet order.
func (t *Tree) SortYears() {
	sort.SliceStable(t.Years, func(i, j int) bool {
		a, b := t.Years[i].Name, t.Years[j].Name
		if a == UnknownYear || b == UnknownYear {
			return b == UnknownYear && a != UnknownYear
		}
		ya, _ := strconv.Atoi(a)
		yb, _ := strconv.Atoi(b)
		return ya > yb
	})

	if t.years == nil {
		t.years = make(map[string]int)
	}
	for i := range t.Years {
		runs := t.Years[i].Runs
		sort.SliceStable(runs, func(a, b int) bool {
			return t.Runs[runs[b]].Date.Before(t.Runs[runs[a]].Date)
		})
		t.years[t.Years[i].Name] = i
	}
}
