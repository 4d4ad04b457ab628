// Package scraper fetches the medal-table page and hands the body to the
// parser. One GET, no retries: the page either yields a full record set
// or the run aborts.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aluiziolira/go-scrape-medals/config"
	"github.com/aluiziolira/go-scrape-medals/models"
	"github.com/aluiziolira/go-scrape-medals/parser"
	"github.com/gocolly/colly/v2"
)

// Scraper wraps a synchronous colly collector for the single-page fetch.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	Metrics   *Metrics

	handlersOnce sync.Once

	mu           sync.Mutex
	body         []byte
	fetchErr     error
	requestCount int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Scraper{
		cfg:       cfg,
		collector: collector,
		Metrics:   NewMetrics(),
	}, nil
}

// Run fetches the page, extracts the medal records and returns them in
// source table order.
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.configureHandlers()

	start := time.Now()
	slog.Info("fetching medal table", slog.String("url", s.cfg.URL))

	visitErr := s.collector.Visit(s.cfg.URL)
	s.collector.Wait()

	s.mu.Lock()
	body, fetchErr := s.body, s.fetchErr
	requestCount := s.requestCount
	s.mu.Unlock()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.cfg.URL, fetchErr)
	}
	if visitErr != nil {
		classified := classifyError(visitErr, 0)
		s.Metrics.IncError(errorTypeLabel(classified))
		return nil, fmt.Errorf("fetch %s: %w", s.cfg.URL, classified)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch %s: empty response body", s.cfg.URL)
	}

	scrapeDate := ""
	if s.cfg.TrackHistory {
		scrapeDate = time.Now().Format(models.DateLayout)
	}

	records, skipped, err := parser.ParseMedalTable(body, scrapeDate)
	if err != nil {
		s.Metrics.IncError("parse")
		return nil, err
	}

	s.Metrics.AddRows(len(records))
	for reason, count := range skipped {
		for i := 0; i < count; i++ {
			s.Metrics.IncSkipped(reason)
		}
	}

	slog.Debug("extraction finished",
		slog.Int("records", len(records)),
		slog.Any("skipped", skipped),
	)

	return &models.ScrapeResult{
		Records:      records,
		StartTime:    start,
		EndTime:      time.Now(),
		RequestCount: requestCount,
		SkippedRows:  skipped,
	}, nil
}

func (s *Scraper) configureHandlers() {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			s.mu.Lock()
			s.requestCount++
			s.mu.Unlock()
			s.Metrics.IncRequest("started")
			slog.Debug("request issued", slog.String("url", r.URL.String()))
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				s.Metrics.ObserveDuration(time.Since(start))
			}
			s.Metrics.IncRequest("completed")
			s.mu.Lock()
			s.body = r.Body
			s.mu.Unlock()
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			classified := classifyError(err, statusCode)
			category := errorTypeLabel(classified)
			s.Metrics.IncError(category)
			slog.Error("request error",
				slog.String("url", s.cfg.URL),
				slog.Int("status", statusCode),
				slog.String("category", category),
				slog.Any("error", err),
			)
			s.mu.Lock()
			if s.fetchErr == nil {
				s.fetchErr = classified
			}
			s.mu.Unlock()
		})
	})
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		default:
			if statusCode >= http.StatusMultipleChoices {
				return ErrBadStatus{Status: statusCode, Err: wrapped}
			}
		}
	}

	if err == nil {
		return nil
	}
	return err
}
