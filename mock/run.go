package mock

import (
	"context"

	"github.com/fwojciec/classload"
)

var _ classload.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of classload.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, cfg classload.RunConfig, progress classload.ProgressFunc) (*classload.Report, error)
}

func (s *Scraper) Scrape(ctx context.Context, cfg classload.RunConfig, progress classload.ProgressFunc) (*classload.Report, error) {
	return s.ScrapeFn(ctx, cfg, progress)
}

var _ classload.RunService = (*RunService)(nil)

// RunService is a mock implementation of classload.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *classload.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*classload.Run, error)
	FindRunsFn    func(ctx context.Context, filter classload.RunFilter) ([]*classload.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *classload.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*classload.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter classload.RunFilter) ([]*classload.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
