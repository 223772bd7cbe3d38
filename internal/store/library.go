// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store keeps the parsed sheet that the service answers from.
//
// Every load parses into a fresh tree. A successful load replaces the
// current sheet; a failed one leaves it in place but its diagnostics are
// still available through Last. When loads overlap, only the one started
// most recently is committed.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pbcsv/internal/csvparser"
	"pbcsv/internal/metrics"
	"pbcsv/internal/models"
)

var (
	// ErrNotLoaded is returned by Current before any load has succeeded.
	ErrNotLoaded = errors.New("no sheet loaded")

	// ErrFetch wraps failures to retrieve a sheet.
	ErrFetch = errors.New("fetch failed")

	// ErrSuperseded is returned by a load whose result was discarded
	// because a newer load started before it finished.
	ErrSuperseded = errors.New("load superseded")
)

// Fetcher retrieves the text of a sheet.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// Result is the outcome of one load.
type Result struct {
	ID       uuid.UUID
	Source   string
	LoadedAt time.Time
	Duration time.Duration
	OK       bool

	// Tree is nil when the sheet could not be retrieved.
	Tree     *models.Tree
	Warnings []string
	Errors   []string
}

// Library holds the current sheet. It is safe for concurrent use.
type Library struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	now     func() time.Time

	mu         sync.RWMutex
	generation uint64
	current    *Result
	last       *Result
	history    *LoadLog
}

// NewLibrary creates an empty library. m may be nil.
func NewLibrary(f Fetcher, m *metrics.Metrics) *Library {
	return &Library{
		fetcher: f,
		metrics: m,
		now:     time.Now,
		history: NewLoadLog(DefaultLoadLogSize),
	}
}

// Load retrieves the sheet at location and parses it.
func (l *Library) Load(ctx context.Context, location string) (*Result, error) {
	gen := l.begin()
	start := l.now()

	text, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		res := &Result{
			ID:       uuid.New(),
			Source:   location,
			LoadedAt: start,
			Duration: l.now().Sub(start),
			Errors:   []string{fmt.Sprintf("Failed to read file: %v", err)},
		}
		if cerr := l.commit(gen, res); cerr != nil {
			return res, cerr
		}
		return res, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return l.parse(gen, start, location, text)
}

// LoadText parses text that was supplied directly, e.g. an upload. name
// identifies it in logs and results.
func (l *Library) LoadText(name, text string) (*Result, error) {
	gen := l.begin()
	return l.parse(gen, l.now(), name, text)
}

func (l *Library) parse(gen uint64, start time.Time, source, text string) (*Result, error) {
	p := csvparser.New()
	parseStart := l.now()
	err := p.ParseString(text)
	parsed := l.now().Sub(parseStart)

	res := &Result{
		ID:       uuid.New(),
		Source:   source,
		LoadedAt: start,
		Duration: l.now().Sub(start),
		OK:       err == nil,
		Tree:     p.Tree(),
		Warnings: p.Warnings(),
		Errors:   p.Errors(),
	}

	if l.metrics != nil {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		l.metrics.RecordParse(result, parsed, len(res.Warnings))
	}

	if cerr := l.commit(gen, res); cerr != nil {
		return res, cerr
	}
	if err != nil {
		slog.Warn("csv parse failed", "id", res.ID, "source", source, "errors", res.Errors)
		return res, err
	}

	slog.Info("csv parsed",
		"id", res.ID,
		"source", source,
		"categories", len(res.Tree.Categories),
		"runs", len(res.Tree.Runs),
		"warnings", len(res.Warnings),
		"duration", res.Duration,
	)
	return res, nil
}

// begin starts a load and returns its generation. Any load still in
// flight from an earlier generation will be discarded.
func (l *Library) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	return l.generation
}

// commit publishes res unless a newer load has started since gen.
func (l *Library) commit(gen uint64, res *Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		if l.metrics != nil {
			l.metrics.RecordSuperseded()
		}
		slog.Info("load superseded", "id", res.ID, "source", res.Source)
		return ErrSuperseded
	}

	l.last = res
	l.history.Add(res)
	if res.OK {
		l.current = res
		if l.metrics != nil {
			l.metrics.SetSheetSize(len(res.Tree.Categories), len(res.Tree.Runs))
		}
	}
	return nil
}

// Current returns the most recent successful load.
func (l *Library) Current() (*Result, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return nil, ErrNotLoaded
	}
	return l.current, nil
}

// Last returns the most recent committed load, successful or not, or nil.
func (l *Library) Last() *Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

// History returns summaries of recent loads, newest first.
func (l *Library) History() []LoadEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.history.Entries()
}
