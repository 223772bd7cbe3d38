// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "pbcsv/internal/value"

// Sum totals the numeric values of every run tagged with Label.
type Sum struct {
	Label  string       `json:"label"`
	Runs   []RunID      `json:"runs"`
	Values value.Values `json:"values"`
}

// Sums groups runs by their sum labels, in order of first appearance, and
// totals each value column. A total is a time if any addend is a time. Its
// precision is the largest addend precision, and it is approximate if any
// addend is. Columns with no numeric values are left out.
func (t *Tree) Sums(runs []RunID, valueNames []string) []Sum {
	var sums []Sum
	index := make(map[string]int)

	for _, id := range runs {
		for _, label := range t.Runs[id].Sums {
			i, ok := index[label]
			if !ok {
				i = len(sums)
				index[label] = i
				sums = append(sums, Sum{Label: label, Values: make(value.Values)})
			}
			sums[i].Runs = append(sums[i].Runs, id)
		}
	}

	for i := range sums {
		for _, name := range valueNames {
			if total, ok := t.total(sums[i].Runs, name); ok {
				sums[i].Values[name] = total
			}
		}
	}
	return sums
}

func (t *Tree) total(runs []RunID, name string) (value.Value, bool) {
	var (
		n           float64
		precision   int
		approximate bool
		isTime      bool
		found       bool
	)
	for _, id := range runs {
		v, ok := t.Runs[id].Values[name]
		if !ok || !v.IsNumeric() {
			continue
		}
		found = true
		n += v.Number
		precision = max(precision, v.Precision)
		approximate = approximate || v.Approximate
		isTime = isTime || v.Kind == value.KindTime
	}
	if !found {
		return value.Value{}, false
	}
	if isTime {
		return value.Time("", n, precision, approximate), true
	}
	return value.Number("", n, precision, approximate), true
}
