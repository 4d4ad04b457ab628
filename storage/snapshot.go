// Package storage persists medal records: a full-overwrite snapshot CSV
// and a dated history merged with replace-on-rerun semantics.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aluiziolira/go-scrape-medals/models"
)

// snapshotHeader is the column layout of the snapshot CSV.
var snapshotHeader = []string{"Rank", "Country", "Gold", "Silver", "Bronze", "Total"}

// WriteSnapshot writes the run's records to path, fully overwriting any
// previous snapshot.
func WriteSnapshot(path string, records []*models.MedalRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(snapshotHeader); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Rank,
			record.Country,
			strconv.Itoa(record.Gold),
			strconv.Itoa(record.Silver),
			strconv.Itoa(record.Bronze),
			strconv.Itoa(record.Total),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write snapshot record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
