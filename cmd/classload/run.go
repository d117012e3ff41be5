package main

import (
	"fmt"

	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/fs"
	"github.com/fwojciec/classload/schedule"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg := classload.NewRunConfig(c.Term, c.Subject, c.Category, c.Output)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", classload.ErrorMessage(err))
		return err
	}
	return executeRun(deps, cfg)
}

// executeRun scrapes cfg, writes the spreadsheet, stores the run and prints
// the summary.
func executeRun(deps *Dependencies, cfg classload.RunConfig) error {
	fmt.Fprintf(deps.Stdout, "Scraping %s for term %s (%s), category %s\n",
		cfg.Subject, cfg.Term, cfg.Session(), cfg.Category)

	report, err := deps.Scraper.Scrape(deps.Ctx, cfg, progressPrinter(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: could not load the class schedule: %v\n", err)
		return err
	}

	if !report.Empty() {
		if err := fs.WriteReport(cfg.OutputPath, deps.Writer, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
	}

	var run *classload.Run
	if deps.Runs != nil {
		run = classload.NewRun(report)
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			// The spreadsheet is already written; history is best effort.
			fmt.Fprintf(deps.Stderr, "warning: run not stored: %s\n", errorText(err))
			run = nil
		}
	}

	if report.Empty() {
		if report.Status == classload.StatusSkipped {
			fmt.Fprintf(deps.Stdout, "No classes kept for %s %s (%s): %s.\n", cfg.Subject, cfg.Term, cfg.Category, report.Message)
		} else {
			fmt.Fprintf(deps.Stdout, "No classes found for %s %s (%s).\n", cfg.Subject, cfg.Term, cfg.Category)
		}
		printStats(deps.Stdout, report.Stats)
		return nil
	}

	printSummary(deps.Stdout, report, summaryRows)
	fmt.Fprintf(deps.Stdout, "Saved %s\n", cfg.OutputPath)
	if run != nil {
		fmt.Fprintf(deps.Stdout, "Run ID %s\n", run.ID)
	}
	return nil
}

// progressPrinter writes page-level progress and failures to stderr.
func progressPrinter(deps *Dependencies) classload.ProgressFunc {
	return func(e classload.ProgressEvent) {
		if e.Type == classload.ProgressDetail {
			return
		}
		fmt.Fprintf(deps.Stderr, "  %s\n", schedule.DescribeProgress(e, 60))
	}
}

// errorText returns the message of application errors and the full text of
// anything else.
func errorText(err error) string {
	if classload.ErrorCode(err) == classload.EINTERNAL {
		return err.Error()
	}
	return classload.ErrorMessage(err)
}
