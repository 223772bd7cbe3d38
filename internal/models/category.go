// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// CategoryID indexes Tree.Categories.
type CategoryID int

// NoCategory is the Parent of a root category.
const NoCategory CategoryID = -1

// Category is a node in the category hierarchy, e.g. a game, a category of
// that game, or a segment of that category. Children and Runs are kept in
// insertion order.
type Category struct {
	ID       CategoryID   `json:"id"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Parent   CategoryID   `json:"parent"`
	Children []CategoryID `json:"children"`
	Runs     []RunID      `json:"runs"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.Parent == NoCategory
}

// AddCategory appends a category under parent (NoCategory for a root) and
// returns its ID. The slug must already be unique among its siblings.
func (t *Tree) AddCategory(name, slug string, parent CategoryID) CategoryID {
	id := CategoryID(len(t.Categories))
	t.Categories = append(t.Categories, Category{
		ID:     id,
		Name:   name,
		Slug:   slug,
		Parent: parent,
	})

	if parent == NoCategory {
		t.Roots = append(t.Roots, id)
	} else {
		p := &t.Categories[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// Category returns the category with the given ID, or nil if out of range.
func (t *Tree) Category(id CategoryID) *Category {
	if id < 0 || int(id) >= len(t.Categories) {
		return nil
	}
	return &t.Categories[id]
}

// Ancestors returns the path from the root down to id, inclusive.
func (t *Tree) Ancestors(id CategoryID) []CategoryID {
	var path []CategoryID
	for c := t.Category(id); c != nil; c = t.Category(c.Parent) {
		path = append(path, c.ID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FullName joins the names from the root down with " - ", e.g.
// "Super Metroid - Any%".
func (t *Tree) FullName(id CategoryID) string {
	return t.joinPath(id, " - ", func(c *Category) string { return c.Name })
}

// FullSlug joins the slugs from the root down with "/", e.g.
// "super-metroid/any".
func (t *Tree) FullSlug(id CategoryID) string {
	return t.joinPath(id, "/", func(c *Category) string { return c.Slug })
}

func (t *Tree) joinPath(id CategoryID, sep string, part func(*Category) string) string {
	path := t.Ancestors(id)
	parts := make([]string, len(path))
	for i, cid := range path {
		parts[i] = part(&t.Categories[cid])
	}
	return strings.Join(parts, sep)
}

// FindCategory resolves a full slug such as "game/category" by walking the
// hierarchy from the roots.
func (t *Tree) FindCategory(fullSlug string) (CategoryID, bool) {
	if fullSlug == "" {
		return NoCategory, false
	}

	level := t.Roots
	found := NoCategory
	for _, s := range strings.Split(fullSlug, "/") {
		found = NoCategory
		for _, id := range level {
			if t.Categories[id].Slug == s {
				found = id
				break
			}
		}
		if found == NoCategory {
			return NoCategory, false
		}
		level = t.Categories[found].Children
	}
	return found, true
}

// HasDates reports whether any run directly in the category has a date cell.
func (t *Tree) HasDates(id CategoryID) bool {
	c := t.Category(id)
	if c == nil {
		return false
	}
	for _, rid := range c.Runs {
		if t.Runs[rid].Date != nil {
			return true
		}
	}
	return false
}

// AllRuns returns the runs of the category and all of its descendants,
// depth first.
func (t *Tree) AllRuns(id CategoryID) []RunID {
	c := t.Category(id)
	if c == nil {
		return nil
	}
	runs := append([]RunID(nil), c.Runs...)
	for _, child := range c.Children {
		runs = append(runs, t.AllRuns(child)...)
	}
	return runs
}

// FlatCategory is a category with its depth in the hierarchy.
type FlatCategory struct {
	ID    CategoryID `json:"id"`
	Depth int        `json:"depth"`
}

// Flat returns every category in depth-first order with Depth set for
// indentation.
func (t *Tree) Flat() []FlatCategory {
	var out []FlatCategory
	t.flatten(t.Roots, 0, &out)
	return out
}

func (t *Tree) flatten(ids []CategoryID, depth int, out *[]FlatCategory) {
	for _, id := range ids {
		*out = append(*out, FlatCategory{ID: id, Depth: depth})
		t.flatten(t.Categories[id].Children, depth+1, out)
	}
}
