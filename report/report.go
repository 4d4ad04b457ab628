// Package report renders medal records as console tables.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/aluiziolira/go-scrape-medals/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultTitle heads the main report banner.
const DefaultTitle = "2026 Winter Olympics Medal Table"

// Reporter writes formatted medal tables to out.
type Reporter struct {
	out   io.Writer
	title string
}

// NewReporter builds a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, title: DefaultTitle}
}

// Render prints the full medal table: a titled banner with the scrape
// date, one row per record in source order, and a footer with the record
// count and the sum of the total column.
func (r *Reporter) Render(records []*models.MedalRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("%s (scraped %s)", r.title, scrapeDate(records))
	t.AppendHeader(table.Row{"Rank", "Country", "Gold", "Silver", "Bronze", "Total"})
	for _, record := range records {
		t.AppendRow(table.Row{
			record.Rank,
			record.Country,
			record.Gold,
			record.Silver,
			record.Bronze,
			record.Total,
		})
	}
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d countries", len(records)),
		"", "", "",
		SumTotals(records),
	})
	t.Render()
}

// RenderTopByGold prints the top n records ranked by gold medals. Ties
// keep source order.
func (r *Reporter) RenderTopByGold(records []*models.MedalRecord, n int) {
	if n <= 0 || len(records) == 0 {
		return
	}

	top := TopByGold(records, n)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Top %d by gold medals", len(top))
	t.AppendHeader(table.Row{"Country", "Gold"})
	for _, record := range top {
		t.AppendRow(table.Row{record.Country, record.Gold})
	}
	t.Render()
}

// TopByGold returns up to n records with the highest gold counts, ties
// preserving source order.
func TopByGold(records []*models.MedalRecord, n int) []*models.MedalRecord {
	sorted := make([]*models.MedalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Gold > sorted[j].Gold
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// SumTotals adds up the total column across records.
func SumTotals(records []*models.MedalRecord) int {
	sum := 0
	for _, record := range records {
		sum += record.Total
	}
	return sum
}

func scrapeDate(records []*models.MedalRecord) string {
	if len(records) == 0 || records[0].ScrapeDate == "" {
		return "N/A"
	}
	return records[0].ScrapeDate
}
