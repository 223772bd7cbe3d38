// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"time"

	"pbcsv/internal/date"
	"pbcsv/internal/markdown"
	"pbcsv/internal/models"
	"pbcsv/internal/store"
	"pbcsv/internal/value"
)

// JSON shapes returned by the API. They are built from the parsed tree on
// each request; the tree itself is never serialized directly.

type valueView struct {
	Kind        value.Kind `json:"kind"`
	Text        string     `json:"text"`
	Formatted   string     `json:"formatted"`
	Long        string     `json:"long"`
	Machine     string     `json:"machine"`
	Approximate bool       `json:"approximate,omitempty"`
}

func newValueView(v value.Value) valueView {
	return valueView{
		Kind:        v.Kind,
		Text:        v.Text,
		Formatted:   v.Formatted(),
		Long:        v.LongFormatted(),
		Machine:     v.MachineFormatted(),
		Approximate: v.Approximate,
	}
}

func newValueViews(values value.Values) map[string]valueView {
	out := make(map[string]valueView, len(values))
	for name, v := range values {
		out[name] = newValueView(v)
	}
	return out
}

type dateView struct {
	Text        string `json:"text"`
	Valid       bool   `json:"valid"`
	ISO         string `json:"iso,omitempty"`
	Long        string `json:"long,omitempty"`
	Precision   string `json:"precision,omitempty"`
	DaysAgo     *int   `json:"days_ago,omitempty"`
	Approximate bool   `json:"approximate,omitempty"`
	Ambiguous   bool   `json:"ambiguous,omitempty"`
}

func newDateView(d *date.DateString, now time.Time) *dateView {
	if d == nil {
		return nil
	}
	v := &dateView{Text: d.Text, Valid: d.Valid}
	if !d.Valid {
		return v
	}
	v.ISO = d.ISO8601()
	v.Long = d.LongString()
	v.Precision = d.Precision.String()
	v.Approximate = d.Approximate()
	v.Ambiguous = d.Ambiguous
	if days, ok := d.DaysAgo(now); ok {
		v.DaysAgo = &days
	}
	return v
}

type runView struct {
	ID           models.RunID         `json:"id"`
	Category     string               `json:"category"`
	CategoryName string               `json:"category_name"`
	Values       map[string]valueView `json:"values"`
	Main         string               `json:"main,omitempty"`
	MainValue    *valueView           `json:"main_value,omitempty"`
	Sums         []string             `json:"sums,omitempty"`
	Platform     string               `json:"platform,omitempty"`
	Version      string               `json:"version,omitempty"`
	Emulator     string               `json:"emulator,omitempty"`
	Comment      string               `json:"comment,omitempty"`
	CommentHTML  string               `json:"comment_html,omitempty"`
	Link         string               `json:"link,omitempty"`
	Date         *dateView            `json:"date,omitempty"`
}

func newRunView(t *models.Tree, id models.RunID, now time.Time) runView {
	r := t.Run(id)
	v := runView{
		ID:           r.ID,
		Category:     t.FullSlug(r.Category),
		CategoryName: t.FullName(r.Category),
		Values:       newValueViews(r.Values),
		Main:         r.Main,
		Sums:         r.Sums,
		Platform:     r.Platform,
		Version:      r.Version,
		Emulator:     r.Emulator,
		Comment:      r.Comment,
		Link:         r.Link,
		Date:         newDateView(r.Date, now),
	}
	if main, ok := r.MainValue(t.ValueNames); ok {
		mv := newValueView(main)
		v.MainValue = &mv
	}
	if r.Comment != "" {
		html, err := markdown.ToInlineHTML(r.Comment)
		if err != nil {
			slog.Warn("comment markdown failed", "run", r.ID, "error", err)
		} else {
			v.CommentHTML = html
		}
	}
	return v
}

func newRunViews(t *models.Tree, ids []models.RunID, now time.Time) []runView {
	out := make([]runView, 0, len(ids))
	for _, id := range ids {
		out = append(out, newRunView(t, id, now))
	}
	return out
}

type categoryRef struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	FullSlug string `json:"full_slug"`
}

func newCategoryRef(t *models.Tree, id models.CategoryID) categoryRef {
	c := t.Category(id)
	return categoryRef{Name: c.Name, Slug: c.Slug, FullSlug: t.FullSlug(id)}
}

// categoryNode is one node of the nested category listing.
type categoryNode struct {
	categoryRef
	RunCount int            `json:"run_count"`
	Children []categoryNode `json:"children,omitempty"`
}

func newCategoryNodes(t *models.Tree, ids []models.CategoryID) []categoryNode {
	out := make([]categoryNode, 0, len(ids))
	for _, id := range ids {
		c := t.Category(id)
		out = append(out, categoryNode{
			categoryRef: newCategoryRef(t, id),
			RunCount:    len(c.Runs),
			Children:    newCategoryNodes(t, c.Children),
		})
	}
	return out
}

// flatCategory is one row of the indented category listing.
type flatCategory struct {
	categoryRef
	FullName string `json:"full_name"`
	Depth    int    `json:"depth"`
	RunCount int    `json:"run_count"`
}

func newFlatCategories(t *models.Tree) []flatCategory {
	flat := t.Flat()
	out := make([]flatCategory, 0, len(flat))
	for _, f := range flat {
		out = append(out, flatCategory{
			categoryRef: newCategoryRef(t, f.ID),
			FullName:    t.FullName(f.ID),
			Depth:       f.Depth,
			RunCount:    len(t.Category(f.ID).Runs),
		})
	}
	return out
}

type sumView struct {
	Label  string               `json:"label"`
	Runs   int                  `json:"runs"`
	Values map[string]valueView `json:"values"`
}

type categoryDetail struct {
	categoryRef
	FullName  string        `json:"full_name"`
	Root      bool          `json:"root"`
	Ancestors []categoryRef `json:"ancestors"`
	Children  []categoryRef `json:"children"`
	HasDates  bool          `json:"has_dates"`
	Runs      []runView     `json:"runs"`
	TotalRuns int           `json:"total_runs"` // including descendants
	Sums      []sumView     `json:"sums,omitempty"`
}

func newCategoryDetail(t *models.Tree, id models.CategoryID, now time.Time) categoryDetail {
	c := t.Category(id)
	d := categoryDetail{
		categoryRef: newCategoryRef(t, id),
		FullName:    t.FullName(id),
		Root:        c.IsRoot(),
		Ancestors:   []categoryRef{},
		Children:    []categoryRef{},
		HasDates:    t.HasDates(id),
		Runs:        newRunViews(t, c.Runs, now),
		TotalRuns:   len(t.AllRuns(id)),
	}

	path := t.Ancestors(id)
	for _, a := range path[:len(path)-1] {
		d.Ancestors = append(d.Ancestors, newCategoryRef(t, a))
	}
	for _, child := range c.Children {
		d.Children = append(d.Children, newCategoryRef(t, child))
	}
	for _, s := range t.Sums(c.Runs, t.ValueNames) {
		d.Sums = append(d.Sums, sumView{Label: s.Label, Runs: len(s.Runs), Values: newValueViews(s.Values)})
	}
	return d
}

type yearSummary struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	RunCount int    `json:"run_count"`
}

type yearDetail struct {
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Runs []runView `json:"runs"`
}

// loadView describes one load attempt.
type loadView struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
	DurationMS int64     `json:"duration_ms"`
	OK         bool      `json:"ok"`
	Categories int       `json:"categories"`
	Runs       int       `json:"runs"`
	Warnings   []string  `json:"warnings"`
	Errors     []string  `json:"errors"`
}

func newLoadView(res *store.Result) *loadView {
	if res == nil {
		return nil
	}
	v := &loadView{
		ID:         res.ID.String(),
		Source:     res.Source,
		LoadedAt:   res.LoadedAt,
		DurationMS: res.Duration.Milliseconds(),
		OK:         res.OK,
		Warnings:   nonNil(res.Warnings),
		Errors:     nonNil(res.Errors),
	}
	if res.Tree != nil {
		v.Categories = len(res.Tree.Categories)
		v.Runs = len(res.Tree.Runs)
	}
	return v
}

type summary struct {
	Current    *loadView `json:"current"`
	Last       *loadView `json:"last,omitempty"`
	ValueNames []string  `json:"value_names"`
	Years      int       `json:"years"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
