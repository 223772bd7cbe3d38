// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"pbcsv/internal/date"
	"pbcsv/internal/value"
)

// RunID indexes Tree.Runs.
type RunID int

// Run is one personal-best record. String fields are empty when absent.
type Run struct {
	ID       RunID        `json:"id"`
	Category CategoryID   `json:"category"`
	Values   value.Values `json:"values"`

	// Main names the value column that best represents the run.
	Main string   `json:"main,omitempty"`
	Sums []string `json:"sums,omitempty"`

	Platform string           `json:"platform,omitempty"`
	Version  string           `json:"version,omitempty"`
	Emulator string           `json:"emulator,omitempty"`
	Comment  string           `json:"comment,omitempty"`
	Link     string           `json:"link,omitempty"`
	Date     *date.DateString `json:"-"`
}

// MainValue returns the value in the Main column, falling back to the
// first value column the run has a value for.
func (r *Run) MainValue(valueNames []string) (value.Value, bool) {
	if v, ok := r.Values[r.Main]; ok && r.Main != "" {
		return v, true
	}
	for _, name := range valueNames {
		if v, ok := r.Values[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// AddRun stores r, attaches it to its category and returns its ID. The
// category must already exist.
func (t *Tree) AddRun(r Run) RunID {
	r.ID = RunID(len(t.Runs))
	t.Runs = append(t.Runs, r)

	c := &t.Categories[r.Category]
	c.Runs = append(c.Runs, r.ID)
	return r.ID
}

// Run returns the run with the given ID, or nil if out of range.
func (t *Tree) Run(id RunID) *Run {
	if id < 0 || int(id) >= len(t.Runs) {
		return nil
	}
	return &t.Runs[id]
}
