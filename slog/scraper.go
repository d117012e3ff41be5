package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/classload"
)

// Ensure LoggingScraper implements classload.Scraper.
var _ classload.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with one summary line per run and a debug
// line per skipped row.
type LoggingScraper struct {
	next   classload.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next classload.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) Scrape(ctx context.Context, cfg classload.RunConfig, progress classload.ProgressFunc) (report *classload.Report, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"term", cfg.Term,
			"subject", cfg.Subject,
			"category", cfg.Category,
			"duration", time.Since(begin),
		}
		if report != nil {
			attrs = append(attrs,
				"status", report.Status,
				"pages", report.Stats.Pages,
				"rows", report.Stats.RowsScraped,
				"skipped", report.Stats.RowsSkipped,
				"instructors", len(report.Workloads),
			)
			for _, skip := range report.Stats.Skips {
				s.logger.Debug("skipped row", "index", skip.Index, "reason", skip.Reason)
			}
		}
		attrs = append(attrs, "err", err)
		s.logger.Info("scrape", attrs...)
	}(time.Now())
	return s.next.Scrape(ctx, cfg, progress)
}
