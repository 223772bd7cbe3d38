// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package source retrieves the text of a sheet from a location: a local
// path, an http(s) URL or an s3://bucket/key object.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"pbcsv/internal/cache"
	"pbcsv/internal/metrics"
	"pbcsv/internal/storage"
)

var (
	// ErrUnsupported is returned for a location whose scheme cannot be
	// read, including s3:// when no object storage is configured.
	ErrUnsupported = errors.New("unsupported source")

	// ErrTooLarge is returned when a sheet exceeds the size limit.
	ErrTooLarge = errors.New("source too large")
)

const (
	DefaultTimeout  = 20 * time.Second
	DefaultMaxBytes = 10 << 20
)

// Options configures a Fetcher. S3, Cache and Metrics are optional.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	S3       *storage.Client
	Cache    *cache.SourceCache
	Metrics  *metrics.Metrics
}

// Fetcher reads sheets. Remote sheets are cached when a cache is
// configured. A Fetcher is safe for concurrent use.
type Fetcher struct {
	http     *resty.Client
	s3       *storage.Client
	cache    *cache.SourceCache
	metrics  *metrics.Metrics
	maxBytes int64
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	c := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.8")

	return &Fetcher{
		http:     c,
		s3:       opts.S3,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		maxBytes: opts.MaxBytes,
	}
}

// MaxBytes returns the size limit applied to every sheet.
func (f *Fetcher) MaxBytes() int64 {
	return f.maxBytes
}

// Fetch returns the text at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: empty location", ErrUnsupported)
	}

	scheme, read, err := f.reader(location)
	if err != nil {
		return "", err
	}

	remote := scheme != "file"
	if remote && f.cache != nil {
		if text, ok := f.cache.Get(ctx, location); ok {
			f.recordCache(true)
			return text, nil
		}
		f.recordCache(false)
	}

	start := time.Now()
	data, err := read(ctx)
	if f.metrics != nil {
		f.metrics.RecordFetch(scheme, time.Since(start), err)
	}
	if err != nil {
		slog.Warn("source fetch failed", "location", location, "error", err)
		return "", err
	}

	text := string(data)
	if remote && f.cache != nil {
		f.cache.Set(ctx, location, text)
	}
	slog.Info("source fetched", "location", location, "bytes", len(data), "duration", time.Since(start))
	return text, nil
}

// Invalidate drops any cached copy of location.
func (f *Fetcher) Invalidate(ctx context.Context, location string) {
	if f.cache != nil {
		f.cache.Invalidate(ctx, strings.TrimSpace(location))
	}
}

// InvalidateAll drops every cached sheet.
func (f *Fetcher) InvalidateAll(ctx context.Context) {
	if f.cache != nil {
		f.cache.InvalidateAll(ctx)
	}
}

type readFunc func(ctx context.Context) ([]byte, error)

// reader picks how to read location and returns the scheme label used in
// metrics.
func (f *Fetcher) reader(location string) (string, readFunc, error) {
	// A one-letter scheme is a Windows drive, as in C:\sheets\pbs.csv.
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		return "file", func(context.Context) ([]byte, error) { return f.readFile(location) }, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return "http", func(ctx context.Context) ([]byte, error) { return f.readHTTP(ctx, location) }, nil
	case storage.Scheme:
		bucket, key, ok := storage.ParseLocation(location)
		if !ok {
			return "", nil, fmt.Errorf("%w: malformed s3 location %q", ErrUnsupported, location)
		}
		if f.s3 == nil {
			return "", nil, fmt.Errorf("%w: object storage is not configured", ErrUnsupported)
		}
		return storage.Scheme, func(ctx context.Context) ([]byte, error) { return f.readS3(ctx, bucket, key) }, nil
	case "file":
		return "file", func(context.Context) ([]byte, error) { return f.readFile(u.Path) }, nil
	default:
		return "", nil, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
	}
}

func (f *Fetcher) readHTTP(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(location)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: %s", location, resp.Status())
	}
	data, err := f.readLimited(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	return data, nil
}

func (f *Fetcher) readS3(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := f.s3.Download(ctx, bucket, key, f.maxBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, fmt.Errorf("%w: %v", ErrTooLarge, err)
	}
	return data, err
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := f.readLimited(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readLimited reads r up to the size limit.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

func (f *Fetcher) recordCache(hit bool) {
	if f.metrics == nil {
		return
	}
	if hit {
		f.metrics.RecordCacheHit()
	} else {
		f.metrics.RecordCacheMiss()
	}
}
