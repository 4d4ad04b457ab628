// Package parser locates the medal table in a fetched page and turns its
// rows into typed records.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-medals/models"
)

// ErrTableNotFound is returned when no table on the page carries the
// expected medal columns.
var ErrTableNotFound = errors.New("could not find a medal table on the page; the page structure may have changed")

// Skip reasons reported alongside extracted records.
const (
	SkipShortRow     = "short_row"
	SkipSummaryRow   = "summary_row"
	SkipEmptyCountry = "empty_country"
)

// headerMarkers must all appear in the first row of a candidate table.
var headerMarkers = []string{"gold", "silver", "bronze"}

// ParseMedalTable parses the raw page body, locates the medal table and
// extracts one record per country. scrapeDate is stamped on every record
// and may be empty when history tracking is off.
func ParseMedalTable(body []byte, scrapeDate string) ([]*models.MedalRecord, map[string]int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	table, err := LocateMedalTable(doc)
	if err != nil {
		return nil, nil, err
	}

	records, skipped := ExtractRecords(TableRows(table), scrapeDate)
	return records, skipped, nil
}

// LocateMedalTable returns the first wikitable whose header row mentions
// gold, silver and bronze, in document order.
func LocateMedalTable(doc *goquery.Document) (*goquery.Selection, error) {
	var match *goquery.Selection
	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := strings.ToLower(table.Find("tr").First().Text())
		for _, marker := range headerMarkers {
			if !strings.Contains(header, marker) {
				return true
			}
		}
		match = table
		return false
	})
	if match == nil {
		return nil, ErrTableNotFound
	}
	return match, nil
}

// TableRows flattens the table into rows of cleaned cell texts, decoupled
// from the document. Both data and header cells count; the header row is
// still present at index 0.
func TableRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, CleanCell(cell.Text()))
		})
		rows = append(rows, cells)
	})
	return rows
}

// ExtractRecords maps table rows to records, skipping the header row,
// rows with fewer than five cells, summary rows and rows without a
// country. Source row order is preserved; duplicate countries are trusted
// as-is.
//
// Known fragility: rows with merged cells shift the positional mapping
// and mis-assign columns. The source table has not done this so far.
func ExtractRecords(rows [][]string, scrapeDate string) ([]*models.MedalRecord, map[string]int) {
	records := make([]*models.MedalRecord, 0, len(rows))
	skipped := make(map[string]int)

	for i, cells := range rows {
		if i == 0 {
			continue
		}
		if len(cells) < 5 {
			skipped[SkipShortRow]++
			continue
		}

		total := ""
		if len(cells) > 5 {
			total = cells[5]
		}

		record, err := models.NewMedalRecord(
			scrapeDate, cells[0], cells[1],
			ParseCount(cells[2]),
			ParseCount(cells[3]),
			ParseCount(cells[4]),
			ParseCount(total),
		)
		switch {
		case errors.Is(err, models.ErrSummaryRow):
			skipped[SkipSummaryRow]++
			continue
		case errors.Is(err, models.ErrEmptyCountry):
			skipped[SkipEmptyCountry]++
			continue
		case err != nil:
			skipped[SkipSummaryRow]++
			continue
		}
		records = append(records, record)
	}

	return records, skipped
}

// CleanCell normalizes a cell: trims whitespace, replaces non-breaking
// spaces, and drops footnote markers such as "[1]". Idempotent.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", " ")
	if i := strings.Index(s, "["); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseCount converts a cleaned cell to a medal count. Anything other
// than a pure digit string (dashes, "N/A", empty) counts as zero.
func ParseCount(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
