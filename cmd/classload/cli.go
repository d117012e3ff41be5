package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/classload"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config Config
	Logger *slog.Logger

	Scraper classload.Scraper
	Writer  classload.ReportWriter
	Reader  classload.ReportReader

	// Runs is nil when history is disabled.
	Runs classload.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `help:"YAML config file" env:"CLASSLOAD_CONFIG" type:"path"`
	DB       string `help:"Run history database path" env:"CLASSLOAD_DB" type:"path"`
	BaseURL  string `name:"base-url" help:"Class search base URL" env:"CLASSLOAD_BASE_URL"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)"`

	Run         RunCmd         `cmd:"" help:"Scrape a term and subject into an xlsx workload report"`
	Interactive InteractiveCmd `cmd:"" help:"Prompt for the run settings, then scrape"`
	Serve       ServeCmd       `cmd:"" help:"Serve the web form"`
	History     HistoryCmd     `cmd:"" help:"List stored runs"`
	Show        ShowCmd        `cmd:"" help:"Print a stored run"`
	Delete      DeleteCmd      `cmd:"" help:"Delete a stored run"`
	Inspect     InspectCmd     `cmd:"" help:"Print the workload rows of an xlsx report"`
}

// ScrapeFlags are shared by the commands that scrape.
type ScrapeFlags struct {
	Static      bool          `help:"Fetch pages over plain HTTP instead of a headless browser"`
	Concurrency int           `short:"c" help:"Concurrent detail page fetches (default from config)"`
	Timeout     time.Duration `help:"Per-page fetch timeout (default from config)"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Term      string `arg:"" help:"Term code, e.g. 2253"`
	Subject   string `arg:"" help:"Subject code, e.g. FIN"`
	Category  string `default:"REG" help:"Class category"`
	Output    string `short:"o" help:"Output xlsx path (default <subject>_<term>_instructor_load.xlsx)"`
	NoHistory bool   `name:"no-history" help:"Do not store the run"`

	ScrapeFlags `embed:""`
}

// InteractiveCmd is the "interactive" subcommand.
type InteractiveCmd struct {
	ScrapeFlags `embed:""`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`

	ScrapeFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Subject string `help:"Only runs for this subject"`
	Term    string `help:"Only runs for this term"`
	Limit   int    `default:"20" help:"Maximum runs to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Output string `short:"o" help:"Also write the run to this xlsx path"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	Path string `arg:"" type:"existingfile" help:"xlsx report written by run or show"`
}

// scrapeFlags returns the scrape flags of the selected command, if any.
func (c *CLI) scrapeFlags(cmd string) *ScrapeFlags {
	switch cmd {
	case "run":
		return &c.Run.ScrapeFlags
	case "interactive":
		return &c.Interactive.ScrapeFlags
	case "serve":
		return &c.Serve.ScrapeFlags
	}
	return nil
}

// needsHistory reports whether the selected command uses the run database.
func (c *CLI) needsHistory(cmd string) bool {
	switch cmd {
	case "inspect":
		return false
	case "run":
		return !c.Run.NoHistory
	}
	return true
}

// apply overlays global and command flags onto cfg.
func (c *CLI) apply(cfg *Config, cmd string) {
	if c.DB != "" {
		cfg.DBPath = c.DB
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if f := c.scrapeFlags(cmd); f != nil {
		if f.Static {
			cfg.Static = true
		}
		if f.Concurrency > 0 {
			cfg.Concurrency = f.Concurrency
		}
		if f.Timeout > 0 {
			cfg.Timeout = f.Timeout
		}
	}
}
