// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus collectors for sheet loading: how
// often sources are fetched and parsed, how long that takes, and the size
// of the sheet currently served.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// Retrieval
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Source cache
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Parsing
	ParsesTotal   *prometheus.CounterVec
	ParseDuration prometheus.Histogram
	ParseWarnings prometheus.Gauge

	// Current sheet
	Categories prometheus.Gauge
	Runs       prometheus.Gauge

	// HTTP
	RateLimitedTotal prometheus.Counter
}

// New creates and registers the collectors. It uses sync.Once so that
// every caller shares one set of collectors and registration happens once.
//
// Metrics:
//   - pbcsv_fetches_total{scheme,result} - sources retrieved
//   - pbcsv_fetch_duration_seconds{scheme} - retrieval time
//   - pbcsv_source_cache_hits_total / pbcsv_source_cache_misses_total
//   - pbcsv_parses_total{result} - parses by outcome
//   - pbcsv_parse_duration_seconds - parse time
//   - pbcsv_parse_warnings - warnings in the last parse
//   - pbcsv_categories / pbcsv_runs - size of the sheet being served
//   - pbcsv_rate_limited_total - requests rejected by the rate limiter
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			FetchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pbcsv_fetches_total",
					Help: "Total number of sheet sources retrieved",
				},
				[]string{"scheme", "result"}, // "file", "http", "s3"; "ok" or "error"
			),

			FetchDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "pbcsv_fetch_duration_seconds",
					Help:    "Duration of sheet retrieval in seconds",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
				},
				[]string{"scheme"},
			),

			CacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "pbcsv_source_cache_hits_total",
					Help: "Total number of source cache hits",
				},
			),

			CacheMissesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "pbcsv_source_cache_misses_total",
					Help: "Total number of source cache misses",
				},
			),

			ParsesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pbcsv_parses_total",
					Help: "Total number of sheet parses",
				},
				[]string{"result"}, // "ok", "failed" or "superseded"
			),

			ParseDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "pbcsv_parse_duration_seconds",
					Help:    "Duration of sheet parsing in seconds",
					Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
				},
			),

			ParseWarnings: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "pbcsv_parse_warnings",
					Help: "Number of warnings in the most recent parse",
				},
			),

			Categories: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "pbcsv_categories",
					Help: "Number of categories in the sheet being served",
				},
			),

			Runs: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "pbcsv_runs",
					Help: "Number of runs in the sheet being served",
				},
			),

			RateLimitedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "pbcsv_rate_limited_total",
					Help: "Total number of requests rejected by the rate limiter",
				},
			),
		}
	})

	return globalMetrics
}

// RecordFetch records one retrieval of a source.
func (m *Metrics) RecordFetch(scheme string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchesTotal.WithLabelValues(scheme, result).Inc()
	m.FetchDuration.WithLabelValues(scheme).Observe(d.Seconds())
}

// RecordCacheHit records a source cache hit.
func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a source cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RecordParse records a finished parse and its warning count.
func (m *Metrics) RecordParse(result string, d time.Duration, warnings int) {
	m.ParsesTotal.WithLabelValues(result).Inc()
	m.ParseDuration.Observe(d.Seconds())
	m.ParseWarnings.Set(float64(warnings))
}

// RecordSuperseded records a parse whose result was discarded because a
// newer load started.
func (m *Metrics) RecordSuperseded() {
	m.ParsesTotal.WithLabelValues("superseded").Inc()
}

// SetSheetSize updates the gauges describing the sheet being served.
func (m *Metrics) SetSheetSize(categories, runs int) {
	m.Categories.Set(float64(categories))
	m.Runs.Set(float64(runs))
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}
