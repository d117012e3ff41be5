package main

import (
	"fmt"

	"github.com/fwojciec/classload"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := classload.RunFilter{Limit: c.Limit}
	if c.Subject != "" {
		filter.Subject = &c.Subject
	}
	if c.Term != "" {
		filter.Term = &c.Term
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'classload run' to create one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"ID", "Created", "Term", "Subject", "Category", "Status", "Rows", "Skipped", "Hash"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Term,
			r.Subject,
			r.Category,
			r.Status,
			r.Stats.RowsParsed,
			r.Stats.RowsSkipped,
			r.ContentHash,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
