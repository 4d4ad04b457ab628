package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/aluiziolira/go-scrape-medals/models"
)

// historyHeader is the column layout of the history CSV: the snapshot
// columns prefixed with the scrape date.
var historyHeader = []string{"Scrape_Date", "Rank", "Country", "Gold", "Silver", "Bronze", "Total"}

// HistoryStore abstracts the backing medium for the medal history so the
// merge logic can run against a CSV file or an in-memory store alike.
type HistoryStore interface {
	Load() ([]*models.MedalRecord, error)
	Save(records []*models.MedalRecord) error
}

// MergeHistory upserts the run's records into the store: every stored
// record sharing the run's scrape date is dropped, then the run's records
// are appended. Rerunning on the same date leaves the store unchanged
// beyond replacing that date's rows. Returns the number of distinct dates
// present after the write.
//
// Concurrent merges against the same store are not safe; the store is
// read and rewritten wholesale with no locking.
func MergeHistory(store HistoryStore, records []*models.MedalRecord) (int, error) {
	existing, err := store.Load()
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}

	if len(records) == 0 {
		return DistinctDates(existing), nil
	}

	merged := UpsertByDate(existing, records)
	if err := store.Save(merged); err != nil {
		return 0, fmt.Errorf("save history: %w", err)
	}
	return DistinctDates(merged), nil
}

// UpsertByDate replaces all records carrying the incoming set's date with
// the incoming set. Existing order is preserved and the incoming records
// go last.
func UpsertByDate(existing, incoming []*models.MedalRecord) []*models.MedalRecord {
	if len(incoming) == 0 {
		return existing
	}
	date := incoming[0].ScrapeDate

	merged := make([]*models.MedalRecord, 0, len(existing)+len(incoming))
	for _, record := range existing {
		if record.ScrapeDate == date {
			continue
		}
		merged = append(merged, record)
	}
	return append(merged, incoming...)
}

// DistinctDates counts the unique scrape dates in records.
func DistinctDates(records []*models.MedalRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		seen[record.ScrapeDate] = struct{}{}
	}
	return len(seen)
}

// CSVHistoryStore persists the history as a single CSV file that is read
// and rewritten in full on every merge.
type CSVHistoryStore struct {
	path string
}

// NewCSVHistoryStore builds a store backed by the file at path. The file
// does not need to exist yet.
func NewCSVHistoryStore(path string) *CSVHistoryStore {
	return &CSVHistoryStore{path: path}
}

// Load reads the history file. A missing file is an empty history, not an
// error. The content is trusted: it was last written by Save.
func (s *CSVHistoryStore) Load() ([]*models.MedalRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var records []*models.MedalRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) != len(historyHeader) {
			return nil, fmt.Errorf("history row %d has %d columns, want %d", i, len(row), len(historyHeader))
		}
		records = append(records, &models.MedalRecord{
			ScrapeDate: row[0],
			Rank:       row[1],
			Country:    row[2],
			Gold:       parseStoredCount(row[3]),
			Silver:     parseStoredCount(row[4]),
			Bronze:     parseStoredCount(row[5]),
			Total:      parseStoredCount(row[6]),
		})
	}
	return records, nil
}

// Save rewrites the whole history file with the given records.
func (s *CSVHistoryStore) Save(records []*models.MedalRecord) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(historyHeader); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.ScrapeDate,
			record.Rank,
			record.Country,
			strconv.Itoa(record.Gold),
			strconv.Itoa(record.Silver),
			strconv.Itoa(record.Bronze),
			strconv.Itoa(record.Total),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write history record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// MemoryHistoryStore keeps the history in memory for tests and dry runs.
type MemoryHistoryStore struct {
	records []*models.MedalRecord
}

// NewMemoryHistoryStore builds an empty in-memory store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Load returns a copy of the stored records.
func (s *MemoryHistoryStore) Load() ([]*models.MedalRecord, error) {
	out := make([]*models.MedalRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Save replaces the stored records.
func (s *MemoryHistoryStore) Save(records []*models.MedalRecord) error {
	s.records = make([]*models.MedalRecord, len(records))
	copy(s.records, records)
	return nil
}

func parseStoredCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
