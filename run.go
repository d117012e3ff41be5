package classload

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultCategory is the class category used when none is given
// (Academic Regular Session).
const DefaultCategory = "REG"

var (
	termRe    = regexp.MustCompile(`^\d{4}$`)
	subjectRe = regexp.MustCompile(`^[A-Z]{2,5}$`)

	// Categories are short session filters such as REG or EXT.
	categoryRe = regexp.MustCompile(`^[A-Z]{2,8}$`)
)

// RunConfig holds the parameters of one scrape run. It is passed by value
// and never mutated after construction.
type RunConfig struct {
	Term       string `json:"term"`
	Subject    string `json:"subject"`
	Category   string `json:"category"`
	OutputPath string `json:"outputPath"`
}

// NewRunConfig normalizes user input into a RunConfig. Subject and category
// are upper cased, an empty category defaults to REG and an empty output
// path defaults to DefaultOutputPath.
func NewRunConfig(term, subject, category, outputPath string) RunConfig {
	cfg := RunConfig{
		Term:       strings.TrimSpace(term),
		Subject:    strings.ToUpper(strings.TrimSpace(subject)),
		Category:   strings.ToUpper(strings.TrimSpace(category)),
		OutputPath: strings.TrimSpace(outputPath),
	}
	if cfg.Category == "" {
		cfg.Category = DefaultCategory
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath(cfg.Subject, cfg.Term)
	}
	return cfg
}

// Validate returns an error if the config contains invalid fields.
func (c RunConfig) Validate() error {
	if !termRe.MatchString(c.Term) {
		return Errorf(EINVALID, "invalid term %q: use 4 digits (e.g., 2253)", c.Term)
	}
	if _, ok := sessions[c.Term[3]]; !ok {
		return Errorf(EINVALID, "invalid term %q: session digit must be 1-4", c.Term)
	}
	if !subjectRe.MatchString(c.Subject) {
		return Errorf(EINVALID, "invalid subject %q: use 2-5 letters (e.g., FIN)", c.Subject)
	}
	if !categoryRe.MatchString(c.Category) {
		return Errorf(EINVALID, "invalid class category %q (e.g., REG, EXT)", c.Category)
	}
	return nil
}

var sessions = map[byte]string{
	'1': "Fall",
	'2': "Spring",
	'3': "Summer",
	'4': "Winter",
}

// Session returns the session name encoded in the last digit of the term
// code, or "" if the term is malformed.
func (c RunConfig) Session() string {
	if len(c.Term) != 4 {
		return ""
	}
	return sessions[c.Term[3]]
}

// SheetName returns the spreadsheet tab name for the run, e.g. FIN_2253.
func (c RunConfig) SheetName() string {
	return fmt.Sprintf("%s_%s", c.Subject, c.Term)
}

// String describes the run for log lines and summaries.
func (c RunConfig) String() string {
	return fmt.Sprintf("term=%s subject=%s category=%s", c.Term, c.Subject, c.Category)
}

// DefaultOutputPath returns the default spreadsheet file name for a run.
func DefaultOutputPath(subject, term string) string {
	return fmt.Sprintf("%s_%s_instructor_load.xlsx", strings.ToLower(subject), term)
}

// Status describes the overall outcome of an extraction.
type Status string

// Status values for Report.
const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusSkipped Status = "skipped"
)

// Report is the result of one extraction run: the workload table plus the
// run metadata shown by front ends.
type Report struct {
	Config    RunConfig             `json:"config"`
	Workloads []*InstructorWorkload `json:"workloads"`
	Stats     RunStats              `json:"stats"`
	Status    Status                `json:"status"`
	Message   string                `json:"message,omitempty"`
}

// Empty reports whether the run produced no workload rows, either because
// no classes were found or because every row found was skipped.
func (r *Report) Empty() bool {
	return r.Status == StatusEmpty || r.Status == StatusSkipped
}

// RunStats counts what happened to the rows of a run.
type RunStats struct {
	Pages        int          `json:"pages"`
	RowsScraped  int          `json:"rowsScraped"`
	RowsParsed   int          `json:"rowsParsed"`
	RowsSkipped  int          `json:"rowsSkipped"`
	Duplicates   int          `json:"duplicates"`
	Unclassified int          `json:"unclassified"`
	Students     int          `json:"students"`
	Skips        []SkippedRow `json:"skips,omitempty"`
}

// AverageClassSize returns the mean enrollment of the counted sections,
// or 0 when none were counted.
func (s RunStats) AverageClassSize() float64 {
	if s.RowsParsed == 0 {
		return 0
	}
	return float64(s.Students) / float64(s.RowsParsed)
}

// SkippedRow records why a data row was dropped.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressPage
	ProgressDetail
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a scrape run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// Scraper runs the full fetch, parse and aggregate pipeline for a config.
// Front ends depend on this interface only.
type Scraper interface {
	// Scrape fetches the listing for cfg and returns the aggregated report.
	// A run that finds no classes returns a report with StatusEmpty, and one
	// whose rows were all skipped returns StatusSkipped; neither is an
	// error. Errors are returned only when the listing cannot be fetched.
	Scrape(ctx context.Context, cfg RunConfig, progress ProgressFunc) (*Report, error)
}

// Run is a stored scrape run.
type Run struct {
	ID          string                `json:"id"`
	Term        string                `json:"term"`
	Subject     string                `json:"subject"`
	Category    string                `json:"category"`
	OutputPath  string                `json:"outputPath"`
	Status      Status                `json:"status"`
	Stats       RunStats              `json:"stats"`
	ContentHash string                `json:"contentHash"`
	Workloads   []*InstructorWorkload `json:"workloads,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// NewRun builds a Run record from a finished report.
func NewRun(report *Report) *Run {
	return &Run{
		Term:       report.Config.Term,
		Subject:    report.Config.Subject,
		Category:   report.Config.Category,
		OutputPath: report.Config.OutputPath,
		Status:     report.Status,
		Stats:      report.Stats,
		Workloads:  report.Workloads,
	}
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Term == "" {
		return Errorf(EINVALID, "run term required")
	}
	if r.Subject == "" {
		return Errorf(EINVALID, "run subject required")
	}
	return nil
}

// Report rebuilds the report view of a stored run.
func (r *Run) Report() *Report {
	report := &Report{
		Config: RunConfig{
			Term:       r.Term,
			Subject:    r.Subject,
			Category:   r.Category,
			OutputPath: r.OutputPath,
		},
		Workloads: r.Workloads,
		Stats:     r.Stats,
		Status:    r.Status,
	}
	if report.Workloads == nil {
		report.Workloads = []*InstructorWorkload{}
	}
	switch report.Status {
	case StatusEmpty:
		report.Message = NoClassesMessage
	case StatusSkipped:
		report.Message = SkippedMessage(r.Stats.RowsScraped)
	}
	return report
}

// RunService represents a service for managing stored runs.
type RunService interface {
	// CreateRun stores a run and its workload rows.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with its workload rows.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	// Workload rows are not loaded.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run and its workload rows.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID      *string `json:"id"`
	Term    *string `json:"term"`
	Subject *string `json:"subject"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
