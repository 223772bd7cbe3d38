// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package csvparser turns a personal-best spreadsheet exported as CSV into
// a category tree of runs.
//
// The first row that names at least one known column becomes the header.
// Rows before it are ignored, and later rows that repeat it are skipped,
// so several exported sheets can be concatenated into one file. Problems
// with individual cells are collected as warnings; only a malformed file or
// a header without category or value columns fails the parse.
package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"pbcsv/internal/date"
	"pbcsv/internal/models"
	"pbcsv/internal/value"
)

// ErrParse is returned by Parse when the sheet cannot be used. Errors
// holds the details.
var ErrParse = errors.New("csv parse failed")

var urlPattern = regexp.MustCompile(`^https?://.+`)

// maxSuggestDistance is the largest edit distance for which an unknown
// main column gets a suggestion.
const maxSuggestDistance = 2

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser parses one sheet. The zero value is not usable; create one with
// New. A Parser is not safe for concurrent use.
type Parser struct {
	tree     *models.Tree
	warnings []string
	errors   []string

	cols      *columns
	hierarchy *hierarchy
	line      int
	ambiguous bool
}

// New returns a parser with an empty tree.
func New() *Parser {
	return &Parser{tree: models.NewTree(nil)}
}

// Tree returns the parsed categories, runs and years. After a failed parse
// it holds whatever was built before the failure.
func (p *Parser) Tree() *models.Tree { return p.tree }

// Warnings returns problems that did not stop the parse, each prefixed
// with "Row N: ".
func (p *Parser) Warnings() []string { return p.warnings }

// Errors returns the reasons the parse failed, if it did.
func (p *Parser) Errors() []string { return p.errors }

// ParseString parses CSV text.
func (p *Parser) ParseString(text string) error {
	return p.Parse(strings.NewReader(text))
}

// Parse reads the whole of r and builds the tree. It returns an error
// wrapping ErrParse when the file is malformed or its header lacks
// category or value columns.
func (p *Parser) Parse(r io.Reader) error {
	p.reset()

	data, err := io.ReadAll(r)
	if err != nil {
		return p.fail(fmt.Sprintf("Failed to read file: %v", err))
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return p.fail(csvErrorMessage(err))
		}
		p.line, _ = reader.FieldPos(0)

		if p.cols == nil {
			if err := p.readHeader(row); err != nil {
				return err
			}
		} else {
			p.readRow(row)
		}

		// encoding/csv skips empty lines, but a blank line in the sheet
		// ends the current category cascade just like a row without values.
		if p.hierarchy != nil && followedByBlankLine(data, reader.InputOffset()) {
			p.hierarchy.reset()
		}
	}

	if len(p.tree.Years) > 0 {
		p.tree.SortYears()
	}
	return nil
}

func (p *Parser) reset() {
	*p = Parser{tree: models.NewTree(nil)}
}

func (p *Parser) readHeader(row []string) error {
	cols, ok, duplicates := classifyHeader(row)
	if !ok {
		return nil
	}
	for _, msg := range duplicates {
		p.warn(msg)
	}

	if len(cols.category) == 0 {
		p.errors = append(p.errors, "No category columns found.")
	}
	if len(cols.value) == 0 {
		p.errors = append(p.errors, "No value columns found.")
	}
	if len(p.errors) > 0 {
		return p.failed()
	}

	p.cols = cols
	p.tree.ValueNames = cols.valueNames
	p.hierarchy = newHierarchy(p.tree)
	return nil
}

func (p *Parser) readRow(row []string) {
	if p.cols.isHeader(row) {
		return
	}

	values := p.values(row)
	if len(values) == 0 {
		p.hierarchy.reset()
		return
	}

	cells := make([]string, len(p.cols.category))
	for i, col := range p.cols.category {
		cells[i] = row[col]
	}
	path := p.hierarchy.path(cells)
	if len(path) == 0 {
		return
	}

	run := models.Run{
		Category: p.hierarchy.ensure(path),
		Values:   values,
		Main:     p.main(row),
		Sums:     p.sums(row),
		Platform: p.cols.cell(row, rolePlatform),
		Version:  p.cols.cell(row, roleVersion),
		Emulator: p.cols.cell(row, roleEmulator),
		Date:     p.date(row),
		Comment:  p.cols.cell(row, roleComment),
		Link:     p.link(row),
	}
	id := p.tree.AddRun(run)

	if p.cols.has(roleDate) {
		p.tree.AddToYear(id)
	}
}

func (p *Parser) values(row []string) value.Values {
	values := make(value.Values)
	for i, col := range p.cols.value {
		if col >= len(row) {
			continue
		}
		if v, ok := value.Parse(row[col]); ok {
			values[p.cols.valueNames[i]] = v
		}
	}
	return values
}

func (p *Parser) main(row []string) string {
	s := p.cols.cell(row, roleMain)
	if s == "" {
		return ""
	}
	for _, name := range p.tree.ValueNames {
		if name == s {
			return s
		}
	}

	msg := "Main is not a name of a value column: " + s
	if suggestion, ok := closest(s, p.tree.ValueNames); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	p.warn(msg)
	return ""
}

// closest returns the value name nearest to s, ignoring case, if it is
// within maxSuggestDistance edits.
func closest(s string, names []string) (string, bool) {
	best, bestDistance := "", maxSuggestDistance+1
	for _, name := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(s), strings.ToLower(name))
		if d < bestDistance {
			best, bestDistance = name, d
		}
	}
	return best, best != ""
}

func (p *Parser) sums(row []string) []string {
	s := p.cols.cell(row, roleSum)
	if s == "" {
		return nil
	}
	var sums []string
	for _, label := range strings.Split(s, ",") {
		if label = strings.TrimSpace(label); label != "" {
			sums = append(sums, label)
		}
	}
	return sums
}

func (p *Parser) date(row []string) *date.DateString {
	if !p.cols.has(roleDate) {
		return nil
	}
	d := date.Parse(p.cols.cell(row, roleDate))
	if d == nil {
		return nil
	}

	if !d.Valid {
		p.warn("Unrecognized date: " + d.Text)
	}
	if d.Ambiguous && !p.ambiguous {
		p.warn(fmt.Sprintf("Ambiguous date %s; assuming date format is MM/DD/YYYY, not DD/MM/YYYY.", d.Text))
		p.ambiguous = true
	}
	return d
}

func (p *Parser) link(row []string) string {
	s := p.cols.cell(row, roleLink)
	if s != "" && !urlPattern.MatchString(s) {
		p.warn("Invalid link URL: " + s)
		return ""
	}
	return s
}

func (p *Parser) warn(msg string) {
	p.warnings = append(p.warnings, fmt.Sprintf("Row %d: %s", p.line, msg))
}

// fail records msg as an error and returns the parse error.
func (p *Parser) fail(msg string) error {
	p.errors = append(p.errors, msg)
	return p.failed()
}

func (p *Parser) failed() error {
	return fmt.Errorf("%w: %s", ErrParse, strings.Join(p.errors, " "))
}

func csvErrorMessage(err error) string {
	var pe *csv.ParseError
	if errors.As(err, &pe) && errors.Is(err, csv.ErrFieldCount) {
		return fmt.Sprintf("Number of columns is inconsistent on line %d", pe.StartLine)
	}
	return err.Error()
}

// followedByBlankLine reports whether the line starting at offset is empty.
func followedByBlankLine(data []byte, offset int64) bool {
	if offset >= int64(len(data)) {
		return false
	}
	rest := data[offset:]
	return rest[0] == '\n' || bytes.HasPrefix(rest, []byte("\r\n"))
}
