// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// maxPrecision bounds the decimal places shown when no precision is known.
const maxPrecision = 6

// FormatNumber returns n with thousands separators. A negative precision
// shows up to six decimal places, dropping trailing zeros; otherwise
// exactly precision places are shown.
func FormatNumber(n float64, precision int) string {
	trim := precision < 0
	if trim {
		precision = maxPrecision
	}

	s := strconv.FormatFloat(math.Abs(n), 'f', precision, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if trim {
		frac = strings.TrimRight(frac, "0")
	}

	grouped := intPart
	if i, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = humanize.Comma(i)
	}

	out := grouped
	if frac != "" {
		out += "." + frac
	}
	if n < 0 && strings.Trim(intPart+frac, "0") != "" {
		out = "-" + out
	}
	return out
}

// FormatPlain returns the shortest exact representation of n.
func FormatPlain(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatTime returns seconds as [-][H:]MM:SS[.sss], omitting leading zero
// units: 61 → "1:01", 59 → "59".
func FormatTime(seconds float64, precision int) string {
	u := splitSeconds(seconds)

	var parts []string
	if u.hours > 0 {
		parts = append(parts, strconv.Itoa(u.hours))
	}
	if u.hours > 0 || u.minutes > 0 {
		parts = append(parts, strconv.Itoa(u.minutes))
	}
	parts = append(parts, FormatNumber(u.seconds, precision))

	if u.negative {
		parts[0] = "-" + parts[0]
	}
	for i := 1; i < len(parts); i++ {
		parts[i] = pad(parts[i], 2)
	}
	return strings.Join(parts, ":")
}

// FormatLongTime returns seconds in words, e.g. "1 hour, 20.300 seconds".
func FormatLongTime(seconds float64, precision int) string {
	u := splitSeconds(seconds)
	sign := 1.0
	if u.negative {
		sign = -1
	}

	var parts []string
	if u.hours > 0 {
		h := FormatNumber(sign*float64(u.hours), 0)
		parts = append(parts, h+" hour"+plural(u.hours == 1))
	}
	if u.minutes > 0 {
		m := strconv.Itoa(int(sign) * u.minutes)
		parts = append(parts, m+" minute"+plural(u.minutes == 1))
	}
	if u.seconds != 0 || seconds == 0 {
		s := FormatNumber(sign*u.seconds, precision)
		parts = append(parts, s+" second"+plural(s == "1" || s == "-1"))
	}
	return strings.Join(parts, ", ")
}

// FormatDuration returns seconds as an ISO 8601 duration such as "PT1H20.3S".
func FormatDuration(seconds float64) string {
	u := splitSeconds(seconds)

	var b strings.Builder
	if u.negative {
		b.WriteString("-")
	}
	b.WriteString("PT")
	if u.hours > 0 {
		b.WriteString(strconv.Itoa(u.hours) + "H")
	}
	if u.minutes > 0 {
		b.WriteString(strconv.Itoa(u.minutes) + "M")
	}
	if u.seconds != 0 || seconds == 0 {
		b.WriteString(FormatNumber(u.seconds, -1) + "S")
	}
	return b.String()
}

type timeUnits struct {
	negative bool
	hours    int
	minutes  int
	seconds  float64
}

func splitSeconds(n float64) timeUnits {
	abs := math.Abs(n)
	return timeUnits{
		negative: n < 0,
		hours:    int(abs / hoursToSeconds),
		minutes:  int(math.Mod(abs, hoursToSeconds) / minutesToSeconds),
		seconds:  math.Mod(abs, minutesToSeconds),
	}
}

// pad zero-pads the integer part of a formatted number to width digits.
func pad(s string, width int) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	for len(intPart) < width {
		intPart = "0" + intPart
	}
	if hasFrac {
		return intPart + "." + frac
	}
	return intPart
}

func plural(singular bool) string {
	if singular {
		return ""
	}
	return "s"
}
