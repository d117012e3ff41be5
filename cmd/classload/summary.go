package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/classload"
	"github.com/jedib0t/go-pretty/v6/table"
)

// summaryRows is how many instructors the terminal summary shows.
const summaryRows = 10

// printSummary renders the first maxRows workload rows followed by the run
// statistics. maxRows <= 0 shows every row.
func printSummary(w io.Writer, report *classload.Report, maxRows int) {
	printWorkloads(w, report.Workloads, maxRows)
	printStats(w, report.Stats)
}

func printWorkloads(w io.Writer, workloads []*classload.InstructorWorkload, maxRows int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Instructor", "UG classes", "UG students", "Grad classes", "Grad students", "Note"})

	shown := workloads
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, wl := range shown {
		t.AppendRow(table.Row{
			wl.Name(),
			wl.UGClasses + wl.UGSupervisionClasses,
			wl.UGStudents + wl.UGSupervisionStudents,
			wl.GradClasses + wl.GradSupervisionClasses,
			wl.GradStudents + wl.GradSupervisionStudents,
			wl.Note,
		})
	}
	if more := len(workloads) - len(shown); more > 0 {
		t.AppendFooter(table.Row{fmt.Sprintf("... and %d more instructors", more)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printStats(w io.Writer, stats classload.RunStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Pages fetched", stats.Pages},
		{"Rows scraped", stats.RowsScraped},
		{"Rows parsed", stats.RowsParsed},
		{"Rows skipped", stats.RowsSkipped},
		{"Duplicates", stats.Duplicates},
		{"Unclassified sections", stats.Unclassified},
		{"Students", stats.Students},
		{"Average class size", fmt.Sprintf("%.1f", stats.AverageClassSize())},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
