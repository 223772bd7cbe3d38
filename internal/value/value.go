// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package value parses spreadsheet cells into typed run values: plain
// strings, numbers, and times. Numbers and times remember how many decimal
// places the original text had and whether any digits were unknown.
package value

import "encoding/json"

// Kind discriminates the variants of Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "string"
	}
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Value is a single cell of a run. Number, Precision, and Approximate are
// only meaningful for KindNumber and KindTime. Times are in seconds.
type Value struct {
	Kind        Kind    `json:"kind"`
	Text        string  `json:"string"`
	Number      float64 `json:"number"`
	Precision   int     `json:"precision"`
	Approximate bool    `json:"approximate"`
}

// Values maps value column names to a run's values.
type Values map[string]Value

// String returns a plain string value.
func String(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// Number returns a numeric value.
func Number(s string, n float64, precision int, approximate bool) Value {
	return Value{Kind: KindNumber, Text: s, Number: n, Precision: precision, Approximate: approximate}
}

// Time returns a time value of n seconds.
func Time(s string, n float64, precision int, approximate bool) Value {
	return Value{Kind: KindTime, Text: s, Number: n, Precision: precision, Approximate: approximate}
}

// IsNumeric reports whether the value carries a magnitude.
func (v Value) IsNumeric() bool {
	return v.Kind == KindNumber || v.Kind == KindTime
}

// Formatted returns the value for display in a table: grouped digits for
// numbers, H:MM:SS for times, and the original text for strings.
// Approximate values are prefixed with "~".
func (v Value) Formatted() string {
	var s string
	switch v.Kind {
	case KindNumber:
		s = FormatNumber(v.Number, v.Precision)
	case KindTime:
		s = FormatTime(v.Number, v.Precision)
	default:
		return v.Text
	}
	if v.Approximate {
		s = "~" + s
	}
	return s
}

// LongFormatted is like Formatted but spells times out in words.
func (v Value) LongFormatted() string {
	if v.Kind != KindTime {
		return v.Formatted()
	}
	s := FormatLongTime(v.Number, v.Precision)
	if v.Approximate {
		s = "~" + s
	}
	return s
}

// MachineFormatted returns a representation suitable for data attributes:
// a bare number, or an ISO 8601 duration for times.
func (v Value) MachineFormatted() string {
	switch v.Kind {
	case KindNumber:
		return FormatPlain(v.Number)
	case KindTime:
		return FormatDuration(v.Number)
	default:
		return v.Text
	}
}
