package schedule

import (
	"fmt"
	"strings"

	"github.com/fwojciec/classload"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// DescribeProgress renders a progress event as a single status line.
func DescribeProgress(e classload.ProgressEvent, width int) string {
	switch e.Type {
	case classload.ProgressStarted:
		return "searching " + TruncateURL(e.URL, width)
	case classload.ProgressPage:
		return fmt.Sprintf("results page %d", e.Completed)
	case classload.ProgressDetail:
		return fmt.Sprintf("[%d/%d] %s", e.Completed, e.Total, TruncateURL(e.URL, width))
	case classload.ProgressFailed:
		msg := classload.ErrorMessage(e.Error)
		if classload.ErrorCode(e.Error) == classload.EINTERNAL && e.Error != nil {
			msg = e.Error.Error()
		}
		var b strings.Builder
		if e.Total > 0 {
			fmt.Fprintf(&b, "[%d/%d] ", e.Completed, e.Total)
		}
		fmt.Fprintf(&b, "failed %s: %s", TruncateURL(e.URL, width), msg)
		return b.String()
	case classload.ProgressFinished:
		return fmt.Sprintf("done: %d of %d rows parsed", e.Completed, e.Total)
	}
	return ""
}
