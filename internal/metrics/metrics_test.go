package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Singleton(t *testing.T) {
	if New() != New() {
		t.Error("New() returned different instances")
	}
}

func TestRecordFetch(t *testing.T) {
	m := New()
	ok := m.FetchesTotal.WithLabelValues("http", "ok")
	failed := m.FetchesTotal.WithLabelValues("http", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	m.RecordFetch("http", 10*time.Millisecond, nil)
	m.RecordFetch("http", 10*time.Millisecond, errors.New("boom"))
	m.RecordFetch("http", 10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(ok) - beforeOK; got != 1 {
		t.Errorf("ok fetches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 2 {
		t.Errorf("failed fetches = %v, want 2", got)
	}
}

func TestRecordParse(t *testing.T) {
	m := New()
	counter := m.ParsesTotal.WithLabelValues("ok")
	before := testutil.ToFloat64(counter)

	m.RecordParse("ok", time.Millisecond, 3)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("parses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ParseWarnings); got != 3 {
		t.Errorf("warnings gauge = %v, want 3", got)
	}
}

func TestSetSheetSize(t *testing.T) {
	m := New()
	m.SetSheetSize(12, 40)

	if got := testutil.ToFloat64(m.Categories); got != 12 {
		t.Errorf("categories = %v, want 12", got)
	}
	if got := testutil.ToFloat64(m.Runs); got != 40 {
		t.Errorf("runs = %v, want 40", got)
	}
}

func TestRecordCache(t *testing.T) {
	m := New()
	hits, misses := testutil.ToFloat64(m.CacheHitsTotal), testutil.ToFloat64(m.CacheMissesTotal)

	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheMiss()

	if got := testutil.ToFloat64(m.CacheHitsTotal) - hits; got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMissesTotal) - misses; got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}
