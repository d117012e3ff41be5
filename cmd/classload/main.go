package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/excelize"
	"github.com/fwojciec/classload/goquery"
	clshttp "github.com/fwojciec/classload/http"
	"github.com/fwojciec/classload/rod"
	"github.com/fwojciec/classload/schedule"
	clslog "github.com/fwojciec/classload/slog"
	"github.com/fwojciec/classload/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path used when neither --config nor CLASSLOAD_CONFIG is set.
	ConfigPath string

	// Stdin feeds interactive prompts.
	Stdin io.Reader

	// SQLite database backing run history.
	DB *sqlite.DB

	// Scraper overrides the browser-backed scraper for end-to-end tests.
	Scraper classload.Scraper

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
		Stdin:      os.Stdin,
	}
}

// Close releases the browser and the database.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("classload"),
		kong.Description("Instructor workload reports from the SF State class schedule."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'classload --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	configPath := cli.Config
	if configPath == "" {
		configPath = m.ConfigPath
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	cli.apply(&cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = logger
	deps.Writer = excelize.NewReportWriter()
	deps.Reader = excelize.NewReportReader()

	defer m.Close()

	if cli.needsHistory(cmd) {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(cfg.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CLASSLOAD_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
		}
		deps.Runs = clslog.NewLoggingRunService(sqlite.NewRunService(m.DB), logger)
	}

	if cmd == "run" || cmd == "interactive" || cmd == "serve" {
		scraper := m.Scraper
		if scraper == nil {
			if scraper, err = m.newScraper(cfg, logger); err != nil {
				return err
			}
		}
		deps.Scraper = clslog.NewLoggingScraper(scraper, logger)
	}

	return kongCtx.Run(deps)
}

// newScraper wires the fetchers, parsers and rate limiter for cfg.
func (m *Main) newScraper(cfg Config, logger *slog.Logger) (*schedule.Scraper, error) {
	var listing, detail classload.Fetcher
	if cfg.Static {
		listing = clshttp.NewFetcher(clshttp.WithTimeout(cfg.Timeout))
		detail = listing
	} else {
		manager, err := rod.NewBrowserManager()
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w (Chrome or Chromium must be installed, or use --static)", err)
		}
		m.closers = append(m.closers, manager)
		// Both fetchers share one browser; each waits for what its pages render.
		if listing, err = rod.NewFetcherWithManager(manager,
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithWaitSelector(goquery.RowSelectors[0]),
		); err != nil {
			return nil, err
		}
		if detail, err = rod.NewFetcherWithManager(manager,
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithWaitSelector(goquery.DetailSelector),
		); err != nil {
			return nil, err
		}
	}

	return &schedule.Scraper{
		Fetcher:       clslog.NewLoggingFetcher(listing, logger),
		DetailFetcher: clslog.NewLoggingFetcher(detail, logger),
		Listings:      goquery.NewListingParser(),
		Details:       goquery.NewDetailParser(),
		RateLimiter:   schedule.NewDomainLimiter(cfg.Rate),
		Concurrency:   cfg.Concurrency,
		RetryDelays:   cfg.RetryDelays,
		BaseURL:       cfg.BaseURL,
		RetryLog: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}, nil
}
