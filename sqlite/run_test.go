package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/classload"
	"github.com/fwojciec/classload/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(term, subject string, workloads ...*classload.InstructorWorkload) *classload.Run {
	status := classload.StatusOK
	if len(workloads) == 0 {
		status = classload.StatusEmpty
	}
	return &classload.Run{
		Term:       term,
		Subject:    subject,
		Category:   "REG",
		OutputPath: "out.xlsx",
		Status:     status,
		Workloads:  workloads,
	}
}

func sampleWorkloads() []*classload.InstructorWorkload {
	return []*classload.InstructorWorkload{
		{
			LastName: "Lee", FirstName: "Sam",
			UGClasses: 1, UGStudents: 30,
			Note: "Cross-listed",
		},
		{
			LastName: "Smith", FirstName: "John",
			GradClasses: 1, GradStudents: 12,
			UnclassifiedClasses: 2, UnclassifiedStudents: 5,
			UnclassifiedCourses: []string{"610", "650"},
			Note:                "2 unclassified section(s): 610, 650",
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := newRun("2253", "FIN", sampleWorkloads()...)

		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
		assert.Regexp(t, `^[0-9a-f]{16}$`, run.ContentHash)
		assert.False(t, run.CreatedAt.IsZero())
	})

	t.Run("equal tables hash equally", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		a := newRun("2253", "FIN", sampleWorkloads()...)
		b := newRun("2253", "FIN", sampleWorkloads()...)
		c := newRun("2253", "FIN", sampleWorkloads()[:1]...)

		require.NoError(t, svc.CreateRun(ctx, a))
		require.NoError(t, svc.CreateRun(ctx, b))
		require.NoError(t, svc.CreateRun(ctx, c))

		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ContentHash, c.ContentHash)
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &classload.Run{Subject: "FIN"})

		require.Error(t, err)
		assert.Equal(t, classload.EINVALID, classload.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("round trips run and workloads", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := newRun("2253", "FIN", sampleWorkloads()...)
		run.Stats = classload.RunStats{
			Pages: 1, RowsScraped: 4, RowsParsed: 3, RowsSkipped: 1, Students: 47, Unclassified: 2,
			Skips: []classload.SkippedRow{{Index: 2, Reason: "missing course number"}},
		}
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)

		require.NoError(t, err)
		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, "FIN", found.Subject)
		assert.Equal(t, "REG", found.Category)
		assert.Equal(t, "out.xlsx", found.OutputPath)
		assert.Equal(t, classload.StatusOK, found.Status)
		assert.Equal(t, run.Stats, found.Stats)
		assert.Equal(t, run.ContentHash, found.ContentHash)
		assert.Equal(t, run.CreatedAt.Unix(), found.CreatedAt.Unix())
		if diff := cmp.Diff(sampleWorkloads(), found.Workloads); diff != "" {
			t.Errorf("workloads mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty run has no workloads", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := newRun("2253", "ACCT")
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)

		require.NoError(t, err)
		assert.Equal(t, classload.StatusEmpty, found.Status)
		assert.Empty(t, found.Workloads)
		assert.Nil(t, found.Stats.Skips)
		assert.Equal(t, classload.NoClassesMessage, found.Report().Message)
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FindRunByID(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, classload.ENOTFOUND, classload.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.RunService {
		t.Helper()
		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		for _, r := range []*classload.Run{
			newRun("2251", "FIN", sampleWorkloads()...),
			newRun("2253", "FIN", sampleWorkloads()...),
			newRun("2253", "ACCT"),
		} {
			require.NoError(t, svc.CreateRun(ctx, r))
		}
		return svc
	}

	t.Run("returns newest first without workloads", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)

		runs, err := svc.FindRuns(context.Background(), classload.RunFilter{})

		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "ACCT", runs[0].Subject)
		assert.Equal(t, "2251", runs[2].Term)
		for _, r := range runs {
			assert.Nil(t, r.Workloads)
		}
	})

	t.Run("filters by subject and term", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		subject, term := "fin", "2253"

		runs, err := svc.FindRuns(context.Background(), classload.RunFilter{Subject: &subject, Term: &term})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "FIN", runs[0].Subject)
		assert.Equal(t, "2253", runs[0].Term)
	})

	t.Run("filters by ID", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		all, err := svc.FindRuns(context.Background(), classload.RunFilter{})
		require.NoError(t, err)

		runs, err := svc.FindRuns(context.Background(), classload.RunFilter{ID: &all[1].ID})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, all[1].ID, runs[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		ctx := context.Background()

		page, err := svc.FindRuns(ctx, classload.RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "2253", page[0].Term)
		assert.Equal(t, "FIN", page[0].Subject)

		rest, err := svc.FindRuns(ctx, classload.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "2251", rest[0].Term)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		subject := "MATH"

		runs, err := svc.FindRuns(context.Background(), classload.RunFilter{Subject: &subject})

		require.NoError(t, err)
		assert.NotNil(t, runs)
		assert.Empty(t, runs)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes run and cascades workloads", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		run := newRun("2253", "FIN", sampleWorkloads()...)
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err := svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, classload.ENOTFOUND, classload.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workloads WHERE run_id = ?", run.ID).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.DeleteRun(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, classload.ENOTFOUND, classload.ErrorCode(err))
	})
}
