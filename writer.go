package classload

import "io"

// ReportWriter encodes a report as a spreadsheet.
type ReportWriter interface {
	// WriteReport writes report to w. An empty report still produces a
	// sheet with the header row.
	WriteReport(w io.Writer, report *Report) error
}

// ReportReader decodes the workload rows of a spreadsheet written by a
// ReportWriter.
type ReportReader interface {
	ReadWorkloads(r io.Reader) ([]*InstructorWorkload, error)
}
