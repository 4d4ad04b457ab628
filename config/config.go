package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds scraper configuration.
type Config struct {
	URL          string
	UserAgent    string
	Timeout      time.Duration
	SnapshotFile string
	HistoryFile  string
	TrackHistory bool
	TopN         int
	MetricsAddr  string
	Verbose      bool
}

// DefaultConfig returns the defaults for the Wikipedia medal table.
func DefaultConfig() *Config {
	return &Config{
		URL:          "https://en.wikipedia.org/wiki/2026_Winter_Olympics_medal_table",
		UserAgent:    "Mozilla/5.0 (compatible; OlympicsMedalScraper/1.0)",
		Timeout:      10 * time.Second,
		SnapshotFile: "output/medal_table.csv",
		HistoryFile:  "output/medal_history.csv",
		TrackHistory: true,
		TopN:         5,
		MetricsAddr:  "",
		Verbose:      false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("snapshot file cannot be empty")
	}
	if c.TrackHistory && c.HistoryFile == "" {
		return fmt.Errorf("history file cannot be empty when history tracking is on")
	}
	if c.TopN < 0 {
		return fmt.Errorf("top-N cannot be negative")
	}

	return nil
}

// EnvString reads a non-empty string environment override.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, true, nil
}
