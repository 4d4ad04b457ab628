package parser

import (
	"errors"
	"testing"

	"github.com/aluiziolira/go-scrape-medals/models"
)

const fixturePage = `<html><body>
<table class="wikitable">
<tr><th>Year</th><th>Host city</th></tr>
<tr><td>2022</td><td>Beijing</td></tr>
</table>
<table class="wikitable sortable">
<tr><th>Rank</th><th>Country</th><th>Gold</th><th>Silver</th><th>Bronze</th><th>Total</th></tr>
<tr><td>1</td><td>Norway</td><td>10</td><td>5</td><td>3</td><td>18</td></tr>
<tr><td>2</td><td>United&#160;States</td><td>8[1]</td><td>7</td><td>6</td><td>21</td></tr>
<tr><td>5</td><td></td><td>1</td><td>1</td><td>1</td><td>3</td></tr>
<tr><td>see notes</td></tr>
<tr><td colspan="2">Totals (2 entries)</td><td>18</td><td>12</td><td>9</td><td>39</td></tr>
</table>
</body></html>`

const noMedalTablePage = `<html><body>
<table class="wikitable">
<tr><th>Year</th><th>Host city</th></tr>
<tr><td>2022</td><td>Beijing</td></tr>
</table>
</body></html>`

func TestParseMedalTable(t *testing.T) {
	records, skipped, err := ParseMedalTable([]byte(fixturePage), "2026-02-09")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}

	want := models.MedalRecord{
		ScrapeDate: "2026-02-09",
		Rank:       "1",
		Country:    "Norway",
		Gold:       10,
		Silver:     5,
		Bronze:     3,
		Total:      18,
	}
	if *records[0] != want {
		t.Fatalf("first record = %+v, want %+v", *records[0], want)
	}

	if records[1].Country != "United States" {
		t.Fatalf("nbsp not normalized: %q", records[1].Country)
	}
	if records[1].Gold != 8 {
		t.Fatalf("footnote not stripped from gold count: %d", records[1].Gold)
	}

	wantSkipped := map[string]int{
		SkipShortRow:     1,
		SkipSummaryRow:   1,
		SkipEmptyCountry: 1,
	}
	for reason, count := range wantSkipped {
		if skipped[reason] != count {
			t.Fatalf("skipped[%s]=%d, want %d (all: %v)", reason, skipped[reason], count, skipped)
		}
	}
}

func TestParseMedalTableNotFound(t *testing.T) {
	_, _, err := ParseMedalTable([]byte(noMedalTablePage), "")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestParseMedalTablePicksFirstMatch(t *testing.T) {
	page := `<html><body>
<table class="wikitable">
<tr><th>Rank</th><th>Country</th><th>Gold</th><th>Silver</th><th>Bronze</th></tr>
<tr><td>1</td><td>First</td><td>1</td><td>0</td><td>0</td></tr>
</table>
<table class="wikitable">
<tr><th>Rank</th><th>Country</th><th>Gold</th><th>Silver</th><th>Bronze</th></tr>
<tr><td>1</td><td>Second</td><td>2</td><td>0</td><td>0</td></tr>
</table>
</body></html>`

	records, _, err := ParseMedalTable([]byte(page), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 || records[0].Country != "First" {
		t.Fatalf("expected the first matching table, got %+v", records)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "footnote markers", input: "12[1][2]", expected: "12"},
		{name: "non-breaking space", input: "United States", expected: "United States"},
		{name: "surrounding whitespace", input: "  Norway \n", expected: "Norway"},
		{name: "footnote after space", input: "Italy [a]", expected: "Italy"},
		{name: "already clean", input: "Norway", expected: "Norway"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCell(tt.input)
			if got != tt.expected {
				t.Fatalf("CleanCell(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := CleanCell(got); again != got {
				t.Fatalf("CleanCell not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{input: "7", expected: 7},
		{input: "1024", expected: 1024},
		{input: "0", expected: 0},
		{input: "", expected: 0},
		{input: "-", expected: 0},
		{input: "N/A", expected: 0},
		{input: "12a", expected: 0},
		{input: "-3", expected: 0},
	}

	for _, tt := range tests {
		if got := ParseCount(tt.input); got != tt.expected {
			t.Fatalf("ParseCount(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestExtractRecordsFiveCellRow(t *testing.T) {
	rows := [][]string{
		{"Rank", "Country", "Gold", "Silver", "Bronze"},
		{"1", "Norway", "10", "5", "3"},
	}

	records, skipped := ExtractRecords(rows, "")
	if len(records) != 1 {
		t.Fatalf("records=%d, want 1 (skipped: %v)", len(records), skipped)
	}
	if records[0].Total != 0 {
		t.Fatalf("missing total column should default to 0, got %d", records[0].Total)
	}
}

func TestExtractRecordsKeepsSourceOrder(t *testing.T) {
	rows := [][]string{
		{"Rank", "Country", "Gold", "Silver", "Bronze", "Total"},
		{"1", "Norway", "10", "5", "3", "18"},
		{"2", "Germany", "9", "7", "5", "21"},
		{"2", "Germany", "9", "7", "5", "21"},
		{"=", "Austria", "9", "2", "4", "15"},
	}

	records, _ := ExtractRecords(rows, "")
	want := []string{"Norway", "Germany", "Germany", "Austria"}
	if len(records) != len(want) {
		t.Fatalf("records=%d, want %d", len(records), len(want))
	}
	for i, country := range want {
		if records[i].Country != country {
			t.Fatalf("records[%d].Country = %q, want %q", i, records[i].Country, country)
		}
	}
	if records[3].Rank != "=" {
		t.Fatalf("non-numeric rank should survive, got %q", records[3].Rank)
	}
}
