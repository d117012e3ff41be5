package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/classload"
)

// Ensure LoggingRunService implements classload.RunService.
var _ classload.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with logging of writes.
type LoggingRunService struct {
	next   classload.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next classload.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

// CreateRun delegates and logs the stored run.
func (s *LoggingRunService) CreateRun(ctx context.Context, run *classload.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create run",
			"id", run.ID,
			"term", run.Term,
			"subject", run.Subject,
			"hash", run.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

// FindRunByID delegates to the wrapped service.
func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (*classload.Run, error) {
	return s.next.FindRunByID(ctx, id)
}

// FindRuns delegates to the wrapped service.
func (s *LoggingRunService) FindRuns(ctx context.Context, filter classload.RunFilter) ([]*classload.Run, error) {
	return s.next.FindRuns(ctx, filter)
}

// DeleteRun delegates and logs the deletion.
func (s *LoggingRunService) DeleteRun(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete run", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteRun(ctx, id)
}
