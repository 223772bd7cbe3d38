// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package date

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		text      string
		valid     bool
		date      time.Time
		precision Precision
		ambiguous bool
	}{
		{name: "YYYY", input: "1987", text: "1987", valid: true, date: day(1987, 1, 1), precision: PrecisionYear},
		{name: "YYYY-MM", input: "1987-12", text: "1987-12", valid: true, date: day(1987, 12, 1), precision: PrecisionMonth},
		{name: "YYYY/MM", input: "1987/12", text: "1987/12", valid: true, date: day(1987, 12, 1), precision: PrecisionMonth},
		{name: "YYYY-MM-DD", input: "1987-12-17", text: "1987-12-17", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "YYYY/MM/DD", input: "1987/12/17", text: "1987/12/17", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "MM-DD-YYYY", input: "12-17-1987", text: "12-17-1987", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "MM/DD/YYYY", input: "12/17/1987", text: "12/17/1987", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "MM-DD-YY", input: "10-20-18", text: "10-20-18", valid: true, date: day(2018, 10, 20), precision: PrecisionDay},
		{name: "MM/DD/YY last century", input: "10/20/87", text: "10/20/87", valid: true, date: day(1987, 10, 20), precision: PrecisionDay},
		{name: "MM-YYYY", input: "12-1987", text: "12-1987", valid: true, date: day(1987, 12, 1), precision: PrecisionMonth},
		{name: "MM/YYYY", input: "12/1987", text: "12/1987", valid: true, date: day(1987, 12, 1), precision: PrecisionMonth},
		{name: "ambiguous", input: "1/2/2003", text: "1/2/2003", valid: true, date: day(2003, 1, 2), precision: PrecisionDay, ambiguous: true},
		{name: "ambiguous two digit year", input: "10/02/18", text: "10/02/18", valid: true, date: day(2018, 10, 2), precision: PrecisionDay, ambiguous: true},
		{name: "same month and day", input: "5/5/2005", text: "5/5/2005", valid: true, date: day(2005, 5, 5), precision: PrecisionDay},
		{name: "day first", input: "17/12/1987", text: "17/12/1987", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "string only", input: "string", text: "string"},
		{name: "month out of range", input: "13/13/2000", text: "13/13/2000"},
		{name: "day out of range", input: "2/30/2001", text: "2/30/2001"},
		{name: "leap day", input: "2000-02-29", text: "2000-02-29", valid: true, date: day(2000, 2, 29), precision: PrecisionDay},
		{name: "ignores extra text", input: "???1987-12-17???", text: "???1987-12-17???", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
		{name: "trims whitespace", input: "   1987-12-17   ", text: "1987-12-17", valid: true, date: day(1987, 12, 17), precision: PrecisionDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.input)
			if d == nil {
				t.Fatalf("Parse(%q) = nil", tt.input)
			}
			if d.Text != tt.text {
				t.Errorf("text: got %q, want %q", d.Text, tt.text)
			}
			if d.Valid != tt.valid {
				t.Fatalf("valid: got %v, want %v", d.Valid, tt.valid)
			}
			if !tt.valid {
				return
			}
			if !d.Date.Equal(tt.date) {
				t.Errorf("date: got %v, want %v", d.Date, tt.date)
			}
			if d.Precision != tt.precision {
				t.Errorf("precision: got %v, want %v", d.Precision, tt.precision)
			}
			if d.Ambiguous != tt.ambiguous {
				t.Errorf("ambiguous: got %v, want %v", d.Ambiguous, tt.ambiguous)
			}
		})
	}
}

func TestParse_Blank(t *testing.T) {
	for _, in := range []string{"", "   "} {
		if d := Parse(in); d != nil {
			t.Errorf("Parse(%q) = %+v, want nil", in, d)
		}
	}
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(1987, 12, 17, 1, 2, 3, 4, time.UTC)

	tests := []struct {
		name      string
		date      time.Time
		precision Precision
		want      int
		ok        bool
	}{
		{name: "day precision", date: day(1987, 12, 10), precision: PrecisionDay, want: 7, ok: true},
		{name: "day precision in the future", date: day(2018, 2, 2), precision: PrecisionDay},
		{name: "month precision counts from month end", date: day(1987, 11, 1), precision: PrecisionMonth, want: 17, ok: true},
		{name: "month precision same month", date: day(1987, 12, 1), precision: PrecisionMonth},
		{name: "year precision counts from year end", date: day(1986, 1, 1), precision: PrecisionYear, want: 351, ok: true},
		{name: "year precision same year", date: day(1987, 1, 1), precision: PrecisionYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DateString{Date: tt.date, Valid: true, Precision: tt.precision}
			got, ok := d.DaysAgo(now)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DaysAgo() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}

	if _, ok := (&DateString{Text: "soon"}).DaysAgo(now); ok {
		t.Error("DaysAgo() on an unrecognized date reported ok")
	}
}

func TestDisplay(t *testing.T) {
	date := day(2018, 3, 4)

	tests := []struct {
		precision Precision
		iso       string
		long      string
	}{
		{PrecisionYear, "2018", "2018"},
		{PrecisionMonth, "2018-03", "March 2018"},
		{PrecisionDay, "2018-03-04", "March 4, 2018"},
	}
	for _, tt := range tests {
		t.Run(tt.precision.String(), func(t *testing.T) {
			d := &DateString{Date: date, Valid: true, Precision: tt.precision}
			if got := d.ISO8601(); got != tt.iso {
				t.Errorf("ISO8601() = %q, want %q", got, tt.iso)
			}
			if got := d.LongString(); got != tt.long {
				t.Errorf("LongString() = %q, want %q", got, tt.long)
			}
		})
	}

	empty := &DateString{Text: "whenever"}
	if empty.ISO8601() != "" || empty.LongString() != "" || empty.Year() != 0 {
		t.Error("unrecognized date should display as empty")
	}
}

func TestBefore(t *testing.T) {
	early := Parse("2001")
	late := Parse("2002-06")
	unknown := Parse("unknown")

	tests := []struct {
		name string
		a, b *DateString
		want bool
	}{
		{"earlier date", early, late, true},
		{"later date", late, early, false},
		{"undated before dated", unknown, early, true},
		{"nil before dated", nil, early, true},
		{"dated after undated", early, nil, false},
		{"undated not before undated", unknown, nil, false},
	}
	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Errorf("%s: Before() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
