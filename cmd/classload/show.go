package main

import (
	"fmt"

	"github.com/fwojciec/classload/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}
	report := run.Report()

	fmt.Fprintf(deps.Stdout, "Run %s: %s %s (%s), %s\n",
		run.ID, run.Subject, run.Term, run.Category, run.CreatedAt.Local().Format("2006-01-02 15:04"))

	if report.Empty() {
		fmt.Fprintln(deps.Stdout, report.Message)
		printStats(deps.Stdout, report.Stats)
		return nil
	}
	printSummary(deps.Stdout, report, 0)

	if c.Output != "" {
		if err := fs.WriteReport(c.Output, deps.Writer, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %s\n", c.Output)
	}
	return nil
}
