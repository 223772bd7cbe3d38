// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// load_log.go keeps a bounded in-memory log of load attempts for
// debugging: what was loaded, when, and whether it worked.
package store

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLoadLogSize is the number of entries kept by a library.
const DefaultLoadLogSize = 20

// LoadEntry summarizes one committed load.
type LoadEntry struct {
	ID       uuid.UUID     `json:"id"`
	Source   string        `json:"source"`
	LoadedAt time.Time     `json:"loaded_at"`
	Duration time.Duration `json:"duration_ns"`
	OK       bool          `json:"ok"`
	Warnings int           `json:"warnings"`
	Errors   []string      `json:"errors,omitempty"`
}

// LoadLog is a fixed-size ring of load entries. It is not safe for
// concurrent use on its own.
type LoadLog struct {
	entries []LoadEntry
	next    int
	full    bool
}

// NewLoadLog creates a log holding up to size entries.
func NewLoadLog(size int) *LoadLog {
	if size <= 0 {
		size = DefaultLoadLogSize
	}
	return &LoadLog{entries: make([]LoadEntry, size)}
}

// Add records a load, evicting the oldest entry when full.
func (l *LoadLog) Add(res *Result) {
	l.entries[l.next] = LoadEntry{
		ID:       res.ID,
		Source:   res.Source,
		LoadedAt: res.LoadedAt,
		Duration: res.Duration,
		OK:       res.OK,
		Warnings: len(res.Warnings),
		Errors:   res.Errors,
	}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Entries returns the recorded loads, newest first.
func (l *LoadLog) Entries() []LoadEntry {
	n := l.next
	if l.full {
		n = len(l.entries)
	}
	out := make([]LoadEntry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, l.entries[(l.next-i+len(l.entries))%len(l.entries)])
	}
	return out
}
