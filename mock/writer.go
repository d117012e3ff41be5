package mock

import (
	"io"

	"github.com/fwojciec/classload"
)

var _ classload.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of classload.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(w io.Writer, report *classload.Report) error
}

func (w *ReportWriter) WriteReport(out io.Writer, report *classload.Report) error {
	return w.WriteReportFn(out, report)
}

var _ classload.ReportReader = (*ReportReader)(nil)

// ReportReader is a mock implementation of classload.ReportReader.
type ReportReader struct {
	ReadWorkloadsFn func(r io.Reader) ([]*classload.InstructorWorkload, error)
}

func (r *ReportReader) ReadWorkloads(in io.Reader) ([]*classload.InstructorWorkload, error) {
	return r.ReadWorkloadsFn(in)
}
