package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aluiziolira/go-scrape-medals/config"
	"github.com/aluiziolira/go-scrape-medals/models"
	"github.com/aluiziolira/go-scrape-medals/report"
	"github.com/aluiziolira/go-scrape-medals/scraper"
	"github.com/aluiziolira/go-scrape-medals/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	urlDefault := defaultCfg.URL
	if value, ok := config.EnvString("SCRAPER_URL"); ok {
		urlDefault = value
	}
	outputDefault := defaultCfg.SnapshotFile
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	historyDefault := defaultCfg.HistoryFile
	if value, ok := config.EnvString("SCRAPER_HISTORY"); ok {
		historyDefault = value
	}
	topDefault := defaultCfg.TopN
	if value, ok, err := config.EnvInt("SCRAPER_TOP"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_TOP: %v\n", err)
		os.Exit(1)
	} else if ok {
		topDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	pageURL := flag.String("url", urlDefault, "Medal table page to scrape")
	outputFile := flag.String("output", outputDefault, "Snapshot CSV path")
	historyFile := flag.String("history", historyDefault, "History CSV path")
	noHistory := flag.Bool("no-history", false, "Skip the history merge")
	topN := flag.Int("top", topDefault, "Size of the top-by-gold preview (0 disables)")
	timeoutSec := flag.Int("timeout", int(defaultCfg.Timeout/time.Second), "Request timeout (seconds)")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.URL = *pageURL
	cfg.SnapshotFile = *outputFile
	cfg.HistoryFile = *historyFile
	cfg.TrackHistory = !*noHistory
	cfg.TopN = *topN
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := s.Run(context.Background())
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}

	reporter := report.NewReporter(os.Stdout)
	reporter.Render(result.Records)

	if err := storage.WriteSnapshot(cfg.SnapshotFile, result.Records); err != nil {
		slog.Error("snapshot write failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("snapshot saved", slog.String("file", cfg.SnapshotFile))

	historyDates := 0
	if cfg.TrackHistory {
		store := storage.NewCSVHistoryStore(cfg.HistoryFile)
		historyDates, err = storage.MergeHistory(store, result.Records)
		if err != nil {
			slog.Error("history merge failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("history updated",
			slog.String("file", cfg.HistoryFile),
			slog.Int("dates", historyDates),
		)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg, historyDates)

	reporter.RenderTopByGold(result.Records, cfg.TopN)
}

func printSummary(result *models.ScrapeResult, cfg *config.Config, historyDates int) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")

	skipped := 0
	for _, count := range result.SkippedRows {
		skipped += count
	}

	fmt.Printf("  Countries:     %d\n", len(result.Records))
	fmt.Printf("  Total medals:  %d\n", report.SumTotals(result.Records))
	fmt.Printf("  Rows skipped:  %d\n", skipped)
	if len(result.SkippedRows) > 0 {
		fmt.Printf("  Skip reasons:  %v\n", result.SkippedRows)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Snapshot:      %s\n", cfg.SnapshotFile)
	if cfg.TrackHistory {
		fmt.Printf("  History:       %s (%d dates)\n", cfg.HistoryFile, historyDates)
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
