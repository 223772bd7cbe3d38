// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models holds the parsed form of a personal-best sheet.
//
// Categories and runs live in flat slices owned by a Tree and refer to each
// other by index, so a Tree can be shared read-only once built.
package models

// Tree is the result of parsing one sheet.
type Tree struct {
	Categories []Category   `json:"categories"`
	Roots      []CategoryID `json:"roots"`
	Runs       []Run        `json:"runs"`
	Years      []Year       `json:"years"`

	// ValueNames are the value column headers in column order.
	ValueNames []string `json:"value_names"`

	years map[string]int
}

// NewTree returns an empty tree for a sheet with the given value columns.
func NewTree(valueNames []string) *Tree {
	return &Tree{ValueNames: valueNames}
}
