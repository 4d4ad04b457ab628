package models

import (
	"errors"
	"testing"
)

func TestNewMedalRecord(t *testing.T) {
	record, err := NewMedalRecord("2026-02-09", "1", "Norway", 10, 5, 3, 18)
	if err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
	if record.Country != "Norway" || record.Gold != 10 || record.Total != 18 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestNewMedalRecordRejections(t *testing.T) {
	tests := []struct {
		name    string
		rank    string
		country string
		wantErr error
	}{
		{name: "empty country", rank: "1", country: "", wantErr: ErrEmptyCountry},
		{name: "whitespace country", rank: "1", country: "   ", wantErr: ErrEmptyCountry},
		{name: "total in country", rank: "1", country: "Totals (10 entries)", wantErr: ErrSummaryRow},
		{name: "total in rank", rank: "Total", country: "Switzerland", wantErr: ErrSummaryRow},
		{name: "mixed case total", rank: "1", country: "TOTAL", wantErr: ErrSummaryRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMedalRecord("", tt.rank, tt.country, 0, 0, 0, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewMedalRecord(%q, %q) error = %v, want %v", tt.rank, tt.country, err, tt.wantErr)
			}
		})
	}
}

func TestNewMedalRecordNegativeCount(t *testing.T) {
	if _, err := NewMedalRecord("", "1", "Norway", -1, 0, 0, 0); err == nil {
		t.Fatalf("negative medal count should be rejected")
	}
}
