package classload

import "fmt"

// NoClassesMessage is the report message when a run finds no classes.
const NoClassesMessage = "no classes found"

// SkippedMessage is the report message when all n rows found were skipped.
func SkippedMessage(n int) string {
	return fmt.Sprintf("%d rows found, all skipped", n)
}

// Extract parses rows with layout and aggregates the resulting sections.
//
// Malformed rows are skipped and counted in Stats; a section that appears
// more than once under the same class number is counted once. If no data
// row is found the report has StatusEmpty; if data rows were found but all
// of them were skipped it has StatusSkipped.
func Extract(rows []Row, layout ColumnLayout) *Report {
	report := &Report{Status: StatusOK}
	stats := &report.Stats

	records := make([]SectionRecord, 0, len(rows))
	seen := make(map[string]struct{})

	for i, row := range rows {
		res := ParseRow(row, layout)
		switch res.Kind {
		case RowNotData:
			continue
		case RowSkipped:
			stats.RowsScraped++
			stats.RowsSkipped++
			stats.Skips = append(stats.Skips, SkippedRow{Index: i, Reason: res.Reason})
			continue
		}
		stats.RowsScraped++

		if cn := res.Record.ClassNumber; cn != "" {
			if _, dup := seen[cn]; dup {
				stats.Duplicates++
				continue
			}
			seen[cn] = struct{}{}
		}

		stats.RowsParsed++
		stats.Students += res.Record.Enrolled
		if res.Record.Level() == LevelUnclassified {
			stats.Unclassified++
		}
		records = append(records, res.Record)
	}

	report.Workloads = Aggregate(records)
	if len(records) == 0 {
		report.Status = StatusEmpty
		report.Message = NoClassesMessage
		if stats.RowsScraped > 0 {
			report.Status = StatusSkipped
			report.Message = SkippedMessage(stats.RowsScraped)
		}
	}
	return report
}

// EmptyReport returns a well-formed report for a run that fetched no rows.
func EmptyReport(cfg RunConfig) *Report {
	return &Report{
		Config:    cfg,
		Workloads: []*InstructorWorkload{},
		Status:    StatusEmpty,
		Message:   NoClassesMessage,
	}
}
