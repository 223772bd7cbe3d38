// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvparser

import (
	"strings"

	"pbcsv/internal/models"
	"pbcsv/internal/slug"
)

// pathSeparator splits a category cell into nested categories.
const pathSeparator = " / "

// hierarchy builds the category tree, resolving each distinct path to one
// node. Nodes are identified by their joined name, so "C1" and "C1?" are
// different categories even though their slugs collide.
type hierarchy struct {
	tree   *models.Tree
	byName map[string]models.CategoryID
	slugs  map[string]*slug.Generator

	// last holds the previous row's category cells for cascading.
	last []string
}

func newHierarchy(tree *models.Tree) *hierarchy {
	return &hierarchy{
		tree:   tree,
		byName: make(map[string]models.CategoryID),
		slugs:  make(map[string]*slug.Generator),
	}
}

// path returns the category path of a row. Blank leading cells are filled
// from the previous row, stopping at the first non-blank cell. Each cell
// may itself contain several levels separated by " / ".
func (h *hierarchy) path(cells []string) []string {
	parts := append([]string(nil), cells...)
	for i := 0; i < len(h.last) && i < len(parts) && strings.TrimSpace(parts[i]) == ""; i++ {
		parts[i] = h.last[i]
	}
	h.last = parts

	var path []string
	for _, p := range strings.Split(strings.Join(parts, pathSeparator), pathSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			path = append(path, p)
		}
	}
	return path
}

// reset stops the next row from inheriting category cells.
func (h *hierarchy) reset() {
	h.last = nil
}

// ensure returns the category for path, creating it and any missing
// ancestors. The same path always yields the same ID.
func (h *hierarchy) ensure(path []string) models.CategoryID {
	name := strings.Join(path, pathSeparator)
	if id, ok := h.byName[name]; ok {
		return id
	}

	parent := models.NoCategory
	parentName := ""
	if len(path) > 1 {
		parent = h.ensure(path[:len(path)-1])
		parentName = strings.Join(path[:len(path)-1], pathSeparator)
	}

	gen, ok := h.slugs[parentName]
	if !ok {
		gen = slug.NewGenerator()
		h.slugs[parentName] = gen
	}

	leaf := path[len(path)-1]
	id := h.tree.AddCategory(leaf, gen.Slugify(leaf), parent)
	h.byName[name] = id
	return id
}
