// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package date parses the free-form date cells of a personal-best sheet.
//
// A cell may hold a full date, a month, or only a year, optionally
// surrounded by other text. The parsed result keeps the original text and
// remembers how precise the date was so it can be displayed and compared
// without inventing detail the sheet never had.
package date

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Precision is the granularity of a parsed date.
type Precision int

const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
)

// String returns the lowercase name of the precision.
func (p Precision) String() string {
	switch p {
	case PrecisionDay:
		return "day"
	case PrecisionMonth:
		return "month"
	default:
		return "year"
	}
}

// DateString is a date cell: the trimmed original text and, when a date
// was recognized, its value. Precision and Ambiguous are meaningless when
// Valid is false.
type DateString struct {
	Text      string
	Date      time.Time
	Valid     bool
	Precision Precision

	// Ambiguous is set for M/D/Y input that would also be a valid D/M/Y
	// date, e.g. 1/2/2003.
	Ambiguous bool
}

var (
	monthDayYear = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4}|\d{2})\b`)
	monthYear    = regexp.MustCompile(`\b(\d{1,2})[-/](\d{4})\b`)
	yearFirst    = regexp.MustCompile(`\b(\d{4})(?:[-/](\d{1,2}))?(?:[-/](\d{1,2}))?\b`)
)

// twoDigitPivot splits two-digit years: below it is 20YY, otherwise 19YY.
const twoDigitPivot = 50

// Parse finds a date in s. It returns nil for a blank cell. Text that
// contains no recognizable date, or a date with an out of range month or
// day, yields a DateString with Valid set to false.
func Parse(s string) *DateString {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	d := &DateString{Text: s}

	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		first, second, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if len(m[3]) == 2 {
			year = expandYear(year)
		}

		month, day := first, second
		switch {
		case first > 12 && second <= 12:
			month, day = second, first
		case first <= 12 && second <= 12 && first != second:
			d.Ambiguous = true
		}
		d.set(year, month, day, PrecisionDay)
		return d
	}

	if m := monthYear.FindStringSubmatch(s); m != nil {
		d.set(atoi(m[2]), atoi(m[1]), 1, PrecisionMonth)
		return d
	}

	if m := yearFirst.FindStringSubmatch(s); m != nil {
		year, month, day := atoi(m[1]), 1, 1
		precision := PrecisionYear
		if m[2] != "" {
			month = atoi(m[2])
			precision = PrecisionMonth
		}
		if m[3] != "" {
			day = atoi(m[3])
			precision = PrecisionDay
		}
		d.set(year, month, day, precision)
	}
	return d
}

func (d *DateString) set(year, month, day int, p Precision) {
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		d.Ambiguous = false
		return
	}
	d.Date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	d.Valid = true
	d.Precision = p
}

// Year returns the calendar year, or 0 when no date was recognized.
func (d *DateString) Year() int {
	if d == nil || !d.Valid {
		return 0
	}
	return d.Date.Year()
}

// ISO8601 returns YYYY, YYYY-MM or YYYY-MM-DD depending on precision, or
// "" when no date was recognized.
func (d *DateString) ISO8601() string {
	if d == nil || !d.Valid {
		return ""
	}
	switch d.Precision {
	case PrecisionDay:
		return d.Date.Format("2006-01-02")
	case PrecisionMonth:
		return d.Date.Format("2006-01")
	default:
		return d.Date.Format("2006")
	}
}

// LongString returns the date in words, e.g. "March 4, 2018", "March 2018"
// or "2018".
func (d *DateString) LongString() string {
	if d == nil || !d.Valid {
		return ""
	}
	switch d.Precision {
	case PrecisionDay:
		return d.Date.Format("January 2, 2006")
	case PrecisionMonth:
		return d.Date.Format("January 2006")
	default:
		return d.Date.Format("2006")
	}
}

// DaysAgo returns the number of whole days between the last day of the
// date's period and now. For a month-precision date that is the last day
// of the month. It reports false when there is no date or the period has
// not yet ended.
func (d *DateString) DaysAgo(now time.Time) (int, bool) {
	if d == nil || !d.Valid {
		return 0, false
	}

	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)

	days := int(today.Sub(d.periodEnd()).Hours() / 24)
	if days <= 0 {
		return 0, false
	}
	return days, true
}

// Approximate reports whether DaysAgo is a lower bound rather than exact.
func (d *DateString) Approximate() bool {
	return d != nil && d.Valid && d.Precision != PrecisionDay
}

// Before orders dates for sorting. Unrecognized dates come before all
// recognized ones.
func (d *DateString) Before(other *DateString) bool {
	a, b := d != nil && d.Valid, other != nil && other.Valid
	switch {
	case !a:
		return b
	case !b:
		return false
	default:
		return d.Date.Before(other.Date)
	}
}

func (d *DateString) periodEnd() time.Time {
	switch d.Precision {
	case PrecisionDay:
		return d.Date
	case PrecisionMonth:
		return d.Date.AddDate(0, 1, -1)
	default:
		return time.Date(d.Date.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}

func expandYear(yy int) int {
	if yy < twoDigitPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
