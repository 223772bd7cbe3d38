// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers serves the parsed personal-best sheet as JSON.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pbcsv/internal/csvparser"
	"pbcsv/internal/store"
)

// Invalidator drops cached copies of a source.
type Invalidator interface {
	Invalidate(ctx context.Context, location string)
}

// API groups the JSON handlers over a Library.
type API struct {
	library     *store.Library
	invalidator Invalidator
	sources     SourcePolicy
	maxBytes    int64
	now         func() time.Time
}

// NewAPI creates the API handler group. inv may be nil when sources are
// never cached. sources limits what a JSON load may fetch and maxBytes
// bounds uploaded sheets.
func NewAPI(lib *store.Library, inv Invalidator, sources SourcePolicy, maxBytes int64) *API {
	return &API{
		library:     lib,
		invalidator: inv,
		sources:     sources,
		maxBytes:    maxBytes,
		now:         time.Now,
	}
}

// loadRequest is the JSON body of POST /api/load.
type loadRequest struct {
	Source  string `json:"source"`
	Refresh bool   `json:"refresh"`
}

// Health reports liveness and whether a sheet is loaded.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	_, err := a.library.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": err == nil,
	})
}

// Summary describes the current sheet and the most recent load attempt.
func (a *API) Summary(w http.ResponseWriter, r *http.Request) {
	res, ok := a.current(w, r)
	if !ok {
		return
	}

	s := summary{
		Current:    newLoadView(res),
		ValueNames: nonNil(res.Tree.ValueNames),
		Years:      len(res.Tree.Years),
	}
	if last := a.library.Last(); last != nil && last != res {
		s.Last = newLoadView(last)
	}
	writeJSON(w, http.StatusOK, s)
}

// Categories lists the category tree. With ?flat=1 it returns a
// depth-first list with depths instead of nested children.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	res, ok := a.current(w, r)
	if !ok {
		return
	}

	if isTruthy(r.URL.Query().Get("flat")) {
		writeJSON(w, http.StatusOK, newFlatCategories(res.Tree))
		return
	}
	writeJSON(w, http.StatusOK, newCategoryNodes(res.Tree, res.Tree.Roots))
}

// Category returns one category by its full slug, e.g. /api/categories/game/any.
func (a *API) Category(w http.ResponseWriter, r *http.Request) {
	res, ok := a.current(w, r)
	if !ok {
		return
	}

	fullSlug := strings.Trim(chi.URLParam(r, "*"), "/")
	id, found := res.Tree.FindCategory(fullSlug)
	if !found {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}
	writeJSON(w, http.StatusOK, newCategoryDetail(res.Tree, id, a.now()))
}

// Years lists the year buckets, newest first.
func (a *API) Years(w http.ResponseWriter, r *http.Request) {
	res, ok := a.current(w, r)
	if !ok {
		return
	}

	years := make([]yearSummary, 0, len(res.Tree.Years))
	for _, y := range res.Tree.Years {
		years = append(years, yearSummary{Name: y.Name, Slug: y.Slug, RunCount: len(y.Runs)})
	}
	writeJSON(w, http.StatusOK, years)
}

// Year returns the runs of one year.
func (a *API) Year(w http.ResponseWriter, r *http.Request) {
	res, ok := a.current(w, r)
	if !ok {
		return
	}

	y, found := res.Tree.FindYear(chi.URLParam(r, "slug"))
	if !found {
		writeError(w, http.StatusNotFound, "Year not found.")
		return
	}
	writeJSON(w, http.StatusOK, yearDetail{
		Name: y.Name,
		Slug: y.Slug,
		Runs: newRunViews(res.Tree, y.Runs, a.now()),
	})
}

// History lists recent load attempts, newest first.
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	entries := a.library.History()
	if entries == nil {
		entries = []store.LoadEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Load parses a new sheet. A JSON body names a source to fetch; any other
// body is the CSV text itself.
func (a *API) Load(w http.ResponseWriter, r *http.Request) {
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		res *store.Result
		err error
	)
	if mediaType == "application/json" {
		var req loadRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceLen*4))
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body.")
			return
		}
		if msg := validateSource(req.Source); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		source := strings.TrimSpace(req.Source)
		if !a.sources.permits(source) {
			slog.Warn("load source rejected", "source", source)
			writeError(w, http.StatusBadRequest, "Source is not allowed.")
			return
		}
		if req.Refresh && a.invalidator != nil {
			a.invalidator.Invalidate(r.Context(), source)
		}
		res, err = a.library.Load(r.Context(), source)
	} else {
		if cs := params["charset"]; cs != "" && !strings.EqualFold(cs, "utf-8") {
			writeError(w, http.StatusUnsupportedMediaType, "Sheets must be UTF-8.")
			return
		}
		body, rerr := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBytes))
		if rerr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(rerr, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Sheet is too large.")
				return
			}
			writeError(w, http.StatusBadRequest, "Could not read request body.")
			return
		}
		name := uploadName(r.URL.Query().Get("name"))
		res, err = a.library.LoadText(name, string(body))
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newLoadView(res))
	case errors.Is(err, store.ErrSuperseded):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "A newer load started before this one finished.",
			"load":  newLoadView(res),
		})
	case errors.Is(err, csvparser.ErrParse):
		writeJSON(w, http.StatusUnprocessableEntity, newLoadView(res))
	case errors.Is(err, store.ErrFetch):
		writeJSON(w, http.StatusBadGateway, newLoadView(res))
	default:
		slog.Error("load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Load failed.")
	}
}

// current returns the current sheet or writes a 503 explaining why there
// is none. It also handles conditional requests keyed on the load ID.
func (a *API) current(w http.ResponseWriter, r *http.Request) (*store.Result, bool) {
	res, err := a.library.Current()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "No sheet loaded.",
			"last":  newLoadView(a.library.Last()),
		})
		return nil, false
	}

	etag := `"` + res.ID.String() + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil, false
	}
	return res, true
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

