// Package models defines data structures for the scraper.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format stamped on scraped records.
const DateLayout = "2006-01-02"

var (
	// ErrEmptyCountry marks a row whose country cell is blank after cleanup.
	ErrEmptyCountry = errors.New("medal record missing country")
	// ErrSummaryRow marks a totals/footer row that is not a country entry.
	ErrSummaryRow = errors.New("summary row is not a country entry")
)

// MedalRecord holds one country's standing in the medal table.
type MedalRecord struct {
	ScrapeDate string `csv:"scrape_date" json:"scrape_date"`
	Rank       string `csv:"rank" json:"rank"`
	Country    string `csv:"country" json:"country"`
	Gold       int    `csv:"gold" json:"gold"`
	Silver     int    `csv:"silver" json:"silver"`
	Bronze     int    `csv:"bronze" json:"bronze"`
	Total      int    `csv:"total" json:"total"`
}

// NewMedalRecord validates and builds a record from cleaned cell values.
// Rank may be non-numeric ("=" for ties); medal counts must already be
// coerced by the caller and cannot be negative.
func NewMedalRecord(scrapeDate, rank, country string, gold, silver, bronze, total int) (*MedalRecord, error) {
	country = strings.TrimSpace(country)
	rank = strings.TrimSpace(rank)
	if country == "" {
		return nil, ErrEmptyCountry
	}
	if containsTotal(country) || containsTotal(rank) {
		return nil, ErrSummaryRow
	}
	for _, count := range []int{gold, silver, bronze, total} {
		if count < 0 {
			return nil, fmt.Errorf("medal count for %s cannot be negative", country)
		}
	}
	return &MedalRecord{
		ScrapeDate: scrapeDate,
		Rank:       rank,
		Country:    country,
		Gold:       gold,
		Silver:     silver,
		Bronze:     bronze,
		Total:      total,
	}, nil
}

func containsTotal(s string) bool {
	return strings.Contains(strings.ToLower(s), "total")
}

// ScrapeResult holds the overall outcome of a scraping run.
type ScrapeResult struct {
	Records      []*MedalRecord
	StartTime    time.Time
	EndTime      time.Time
	RequestCount int
	SkippedRows  map[string]int
}
