// Package excelize writes workload reports as xlsx spreadsheets.
package excelize

import (
	"fmt"
	"io"

	"github.com/fwojciec/classload"
	"github.com/xuri/excelize/v2"
)

// Ensure ReportWriter implements classload.ReportWriter at compile time.
var _ classload.ReportWriter = (*ReportWriter)(nil)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// Column widths in characters: names, the eight counters, the note.
const (
	nameWidth    = 18
	counterWidth = 14
	noteWidth    = 48
)

// ReportWriter writes one sheet named after the run with the fixed
// workload columns and one row per instructor.
type ReportWriter struct{}

// NewReportWriter returns a ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport implements classload.ReportWriter.
func (w *ReportWriter) WriteReport(out io.Writer, report *classload.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(report.Config)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	last := len(classload.Columns)
	if err := sw.SetColWidth(1, 2, nameWidth); err != nil {
		return err
	}
	if err := sw.SetColWidth(3, last-1, counterWidth); err != nil {
		return err
	}
	if err := sw.SetColWidth(last, last, noteWidth); err != nil {
		return err
	}

	header := make([]any, len(classload.Columns))
	for i, name := range classload.Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, workload := range report.Workloads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, workload.Values()); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(out)
}

// SheetName returns the sheet name for a run, falling back to the default
// sheet name for a config without subject or term.
func SheetName(cfg classload.RunConfig) string {
	if cfg.Subject == "" || cfg.Term == "" {
		return defaultSheet
	}
	return cfg.SheetName()
}

// Ensure ReportReader implements classload.ReportReader at compile time.
var _ classload.ReportReader = (*ReportReader)(nil)

// ReportReader reads workload sheets produced by ReportWriter.
type ReportReader struct{}

// NewReportReader returns a ReportReader.
func NewReportReader() *ReportReader {
	return &ReportReader{}
}

// ReadWorkloads reads the rows of the first sheet back into workloads.
// The sheet must start with the workload header row.
func (*ReportReader) ReadWorkloads(r io.Reader) ([]*classload.InstructorWorkload, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, classload.Errorf(classload.EINVALID, "invalid spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, classload.Errorf(classload.EINVALID, "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] != classload.Columns[0] {
		return nil, classload.Errorf(classload.EINVALID, "spreadsheet is missing the workload header")
	}

	workloads := make([]*classload.InstructorWorkload, 0, len(rows)-1)
	for i, row := range rows[1:] {
		w, err := parseRow(row)
		if err != nil {
			return nil, classload.Errorf(classload.EINVALID, "row %d: %v", i+2, err)
		}
		workloads = append(workloads, w)
	}
	return workloads, nil
}

func parseRow(row []string) (*classload.InstructorWorkload, error) {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	counts := make([]int, 8)
	for i := range counts {
		text := cell(i + 2)
		if text == "" {
			continue
		}
		if _, err := fmt.Sscan(text, &counts[i]); err != nil {
			return nil, fmt.Errorf("column %q: %q is not a number", classload.Columns[i+2], text)
		}
	}
	return &classload.InstructorWorkload{
		LastName:                cell(0),
		FirstName:               cell(1),
		UGClasses:               counts[0],
		UGStudents:              counts[1],
		UGSupervisionClasses:    counts[2],
		UGSupervisionStudents:   counts[3],
		GradClasses:             counts[4],
		GradStudents:            counts[5],
		GradSupervisionClasses:  counts[6],
		GradSupervisionStudents: counts[7],
		Note:                    cell(10),
	}, nil
}
