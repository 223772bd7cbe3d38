// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package value

import (
	"regexp"
	"strconv"
	"strings"
)

// x, X, and ? stand in for unknown digits anywhere in a group. A match
// only counts when it holds at least one real digit, see findWithDigit.
const (
	digitGroup    = `[\dxX?]+`
	fractionGroup = `\.[\dxX?]+`
)

var (
	// quoted splits `<value> "display text"`.
	quoted = regexp.MustCompile(`(?s)^(.*?)\s+"(.+)"$`)

	// timeExact is HH:MM:SS or MM:SS (with optional sign and decimal) and
	// nothing else; used for the head of a quoted cell.
	timeExact = regexp.MustCompile(`^([+-])?(?:(` + digitGroup + `):)?(` + digitGroup + `):(` + digitGroup + `(?:` + fractionGroup + `)?)$`)

	// timeHours finds HH:MM:SS anywhere in a cell.
	timeHours = regexp.MustCompile(`([+-])?(` + digitGroup + `):(` + digitGroup + `):(` + digitGroup + `(?:` + fractionGroup + `)?)`)

	// timeMinutes finds MM:SS anywhere in a cell. SS alone is not a time:
	// it is indistinguishable from a number, so it is left to ParseNumber.
	timeMinutes = regexp.MustCompile(`([+-])?(` + digitGroup + `):(` + digitGroup + `(?:` + fractionGroup + `)?)`)

	numberPattern = `[+-]?(?:` + digitGroup + `(?:` + fractionGroup + `)?|\.` + digitGroup + `)`
	numberExact   = regexp.MustCompile(`^(` + numberPattern + `)$`)
	numberAny     = regexp.MustCompile(`(` + numberPattern + `)`)

	realDigit     = regexp.MustCompile(`\d`)
	placeholders  = strings.NewReplacer("x", "0", "X", "0", "?", "0")
	precisionJunk = regexp.MustCompile(`[^\dxX?.]`)
)

const (
	minutesToSeconds = 60
	hoursToSeconds   = 60 * minutesToSeconds
)

// Parse classifies a cell as a time, a number, or a plain string, in that
// order. It returns false only for blank cells.
func Parse(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, false
	}
	if v, ok := ParseTime(s); ok {
		return v, true
	}
	if v, ok := ParseNumber(s); ok {
		return v, true
	}
	return String(s), true
}

// ParseTime finds a time in s and returns it in seconds. A trailing quoted
// string after an HH:MM:SS or MM:SS value replaces the display text.
func ParseTime(s string) (Value, bool) {
	s = strings.TrimSpace(s)

	if head, text, ok := splitQuoted(s); ok {
		if m := findWithDigit(timeExact, head); m != nil {
			return timeFromParts(text, m[1], m[2], m[3], m[4]), true
		}
	}
	if m := findWithDigit(timeHours, s); m != nil {
		return timeFromParts(s, m[1], m[2], m[3], m[4]), true
	}
	if m := findWithDigit(timeMinutes, s); m != nil {
		return timeFromParts(s, m[1], "", m[2], m[3]), true
	}
	return Value{}, false
}

// ParseNumber finds a number in s. Commas are ignored. A trailing quoted
// string replaces the display text.
func ParseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)

	if head, text, ok := splitQuoted(s); ok {
		if m := findWithDigit(numberExact, stripCommas(head)); m != nil {
			return numberFromMatch(text, m[1]), true
		}
	}
	if m := findWithDigit(numberAny, stripCommas(s)); m != nil {
		return numberFromMatch(s, m[1]), true
	}
	return Value{}, false
}

// Precision returns the number of places after the decimal point in s,
// counting trailing zeros and unknown-digit placeholders.
func Precision(s string) int {
	s = precisionJunk.ReplaceAllString(s, "")
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	if i := strings.IndexByte(frac, '.'); i >= 0 {
		frac = frac[:i]
	}
	return len(frac)
}

// findWithDigit returns the leftmost match of re in s that contains a real
// digit, so runs of placeholders inside words like "Max" or "Who?" are
// skipped.
func findWithDigit(re *regexp.Regexp, s string) []string {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if realDigit.MatchString(m[0]) {
			return m
		}
	}
	return nil
}

func splitQuoted(s string) (head, text string, ok bool) {
	m := quoted.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	text = strings.TrimSpace(m[2])
	if text == "" {
		return "", "", false
	}
	return m[1], text, true
}

func timeFromParts(display, sign, hours, minutes, seconds string) Value {
	approx := hasPlaceholders(hours) || hasPlaceholders(minutes) || hasPlaceholders(seconds)

	h, _ := strconv.Atoi(placeholders.Replace(hours))
	m, _ := strconv.Atoi(placeholders.Replace(minutes))
	sec, err := strconv.ParseFloat(placeholders.Replace(seconds), 64)
	if err != nil {
		sec = 0
	}

	n := float64(h*hoursToSeconds+m*minutesToSeconds) + sec
	if sign == "-" {
		n = -n
	}
	return Time(display, n, Precision(seconds), approx)
}

func numberFromMatch(display, match string) Value {
	n, err := strconv.ParseFloat(placeholders.Replace(match), 64)
	if err != nil {
		n = 0
	}
	return Number(display, n, Precision(match), hasPlaceholders(match))
}

func hasPlaceholders(s string) bool {
	return strings.ContainsAny(s, "xX?")
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
