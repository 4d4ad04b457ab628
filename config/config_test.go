package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty url",
			mutate: func(cfg *Config) {
				cfg.URL = ""
			},
			wantErr: "URL",
		},
		{
			name: "url without host",
			mutate: func(cfg *Config) {
				cfg.URL = "http://"
			},
			wantErr: "URL",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "empty snapshot file",
			mutate: func(cfg *Config) {
				cfg.SnapshotFile = ""
			},
			wantErr: "snapshot file",
		},
		{
			name: "history enabled without file",
			mutate: func(cfg *Config) {
				cfg.TrackHistory = true
				cfg.HistoryFile = ""
			},
			wantErr: "history file",
		},
		{
			name: "negative top-N",
			mutate: func(cfg *Config) {
				cfg.TopN = -1
			},
			wantErr: "top-N",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestHistoryFileOptionalWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackHistory = false
	cfg.HistoryFile = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("history file should be optional when tracking is off, got %v", err)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SCRAPER_TEST_INT", "7")
	value, ok, err := EnvInt("SCRAPER_TEST_INT")
	if err != nil || !ok || value != 7 {
		t.Fatalf("EnvInt = (%d, %v, %v), want (7, true, nil)", value, ok, err)
	}

	t.Setenv("SCRAPER_TEST_INT", "seven")
	if _, _, err := EnvInt("SCRAPER_TEST_INT"); err == nil {
		t.Fatalf("expected error for non-integer value")
	}
}
