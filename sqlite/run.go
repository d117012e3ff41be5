package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/classload"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ classload.RunService = (*RunService)(nil)

// RunService implements classload.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

const runColumns = `id, term, subject, category, output_path, status,
	pages, rows_scraped, rows_parsed, rows_skipped, duplicates, unclassified, students,
	skips, content_hash, created_at`

// CreateRun stores a run and its workload rows in one transaction. The ID,
// content hash and creation time are assigned here.
func (s *RunService) CreateRun(ctx context.Context, run *classload.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	skips, err := json.Marshal(run.Stats.Skips)
	if err != nil {
		return fmt.Errorf("failed to encode skips: %w", err)
	}
	if run.Stats.Skips == nil {
		skips = []byte("[]")
	}

	run.ID = uuid.New().String()
	run.ContentHash = hashWorkloads(run.Workloads)
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	st := run.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Term, run.Subject, run.Category, run.OutputPath, string(run.Status),
		st.Pages, st.RowsScraped, st.RowsParsed, st.RowsSkipped, st.Duplicates, st.Unclassified, st.Students,
		string(skips), run.ContentHash, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for i, w := range run.Workloads {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workloads (run_id, position, last_name, first_name,
				ug_classes, ug_students, ug_supervision_classes, ug_supervision_students,
				grad_classes, grad_students, grad_supervision_classes, grad_supervision_students,
				unclassified_classes, unclassified_students, unclassified_courses, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, w.LastName, w.FirstName,
			w.UGClasses, w.UGStudents, w.UGSupervisionClasses, w.UGSupervisionStudents,
			w.GradClasses, w.GradStudents, w.GradSupervisionClasses, w.GradSupervisionStudents,
			w.UnclassifiedClasses, w.UnclassifiedStudents, strings.Join(w.UnclassifiedCourses, ","), w.Note)
		if err != nil {
			return fmt.Errorf("failed to insert workload %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its workload rows.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*classload.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, classload.Errorf(classload.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.Workloads, err = s.findWorkloads(ctx, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter classload.RunFilter) ([]*classload.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Term != nil {
		query.WriteString(" AND term = ?")
		args = append(args, *filter.Term)
	}
	if filter.Subject != nil {
		query.WriteString(" AND subject = ?")
		args = append(args, strings.ToUpper(*filter.Subject))
	}

	// created_at has second resolution; rowid keeps insertion order within a second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*classload.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun permanently removes a run. Workload rows cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return classload.Errorf(classload.ENOTFOUND, "run not found")
	}

	return nil
}

func (s *RunService) findWorkloads(ctx context.Context, runID string) ([]*classload.InstructorWorkload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT last_name, first_name,
			ug_classes, ug_students, ug_supervision_classes, ug_supervision_students,
			grad_classes, grad_students, grad_supervision_classes, grad_supervision_students,
			unclassified_classes, unclassified_students, unclassified_courses, note
		FROM workloads
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workloads := []*classload.InstructorWorkload{}
	for rows.Next() {
		var w classload.InstructorWorkload
		var courses string
		if err := rows.Scan(&w.LastName, &w.FirstName,
			&w.UGClasses, &w.UGStudents, &w.UGSupervisionClasses, &w.UGSupervisionStudents,
			&w.GradClasses, &w.GradStudents, &w.GradSupervisionClasses, &w.GradSupervisionStudents,
			&w.UnclassifiedClasses, &w.UnclassifiedStudents, &courses, &w.Note); err != nil {
			return nil, err
		}
		if courses != "" {
			w.UnclassifiedCourses = strings.Split(courses, ",")
		}
		workloads = append(workloads, &w)
	}

	return workloads, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*classload.Run, error) {
	var run classload.Run
	var status, skips, createdAt string

	st := &run.Stats
	if err := row.Scan(&run.ID, &run.Term, &run.Subject, &run.Category, &run.OutputPath, &status,
		&st.Pages, &st.RowsScraped, &st.RowsParsed, &st.RowsSkipped, &st.Duplicates, &st.Unclassified, &st.Students,
		&skips, &run.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	run.Status = classload.Status(status)
	if err := json.Unmarshal([]byte(skips), &st.Skips); err != nil {
		return nil, fmt.Errorf("failed to decode skips: %w", err)
	}
	if len(st.Skips) == 0 {
		st.Skips = nil
	}

	var err error
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &run, nil
}
