package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zenalexa/autoeval/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db *sql.DB
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(db *sql.DB) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: db}
}

func (r *SQLiteRunRepo) CreateRun(ctx context.Context, run *domain.RunRecord) error {
	query := `INSERT INTO runs (id, task_id, task_name, policy, started_at, finished_at, state, total, succeeded, skipped, failed)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.TaskID,
		run.TaskName,
		string(run.Policy),
		run.StartedAt.Format(time.RFC3339),
		string(run.State),
		run.Total,
		run.Succeeded,
		run.Skipped,
		run.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) FinishRun(ctx context.Context, run *domain.RunRecord) error {
	var finished any
	if run.FinishedAt != nil {
		finished = run.FinishedAt.Format(time.RFC3339)
	}
	query := `UPDATE runs SET task_id = ?, task_name = ?, finished_at = ?, state = ?, total = ?, succeeded = ?, skipped = ?, failed = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		run.TaskID,
		run.TaskName,
		finished,
		string(run.State),
		run.Total,
		run.Succeeded,
		run.Skipped,
		run.Failed,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) AddOutcome(ctx context.Context, outcome *domain.ItemOutcome) error {
	if outcome.ID == "" {
		outcome.ID = uuid.New().String()
	}
	query := `INSERT INTO item_outcomes (id, run_id, seq, course, teacher, status, overridden, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		outcome.ID,
		outcome.RunID,
		outcome.Seq,
		outcome.Course,
		outcome.Teacher,
		string(outcome.Status),
		outcome.Overridden,
		outcome.Detail,
		outcome.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item outcome: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	query := `SELECT id, task_id, task_name, policy, started_at, finished_at, state, total, succeeded, skipped, failed
		FROM runs ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRunRepo) ListOutcomes(ctx context.Context, runID string) ([]*domain.ItemOutcome, error) {
	query := `SELECT id, run_id, seq, course, teacher, status, overridden, detail, created_at
		FROM item_outcomes WHERE run_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing item outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*domain.ItemOutcome
	for rows.Next() {
		var o domain.ItemOutcome
		var status, created string
		if err := rows.Scan(&o.ID, &o.RunID, &o.Seq, &o.Course, &o.Teacher, &status, &o.Overridden, &o.Detail, &created); err != nil {
			return nil, fmt.Errorf("scanning item outcome: %w", err)
		}
		o.Status = domain.ItemStatus(status)
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			o.CreatedAt = t
		}
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}

func scanRun(rows *sql.Rows) (*domain.RunRecord, error) {
	var run domain.RunRecord
	var policy, started, state string
	var finished sql.NullString
	if err := rows.Scan(&run.ID, &run.TaskID, &run.TaskName, &policy, &started, &finished, &state, &run.Total, &run.Succeeded, &run.Skipped, &run.Failed); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Policy = domain.Policy(policy)
	run.State = domain.RunState(state)
	if t, err := time.Parse(time.RFC3339, started); err == nil {
		run.StartedAt = t
	}
	if finished.Valid {
		if t, err := time.Parse(time.RFC3339, finished.String); err == nil {
			run.FinishedAt = &t
		}
	}
	return &run, nil
}
