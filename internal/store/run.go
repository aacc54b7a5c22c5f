package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// RunStore keeps the history of verification runs and their check results.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Save writes the run and all of its results in one transaction.
func (s *RunStore) Save(ctx context.Context, run models.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Insert(tableRuns).
		Columns(runColumns...).
		Values(run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.ProvisionError, run.Passed()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if len(run.Results) > 0 {
		builder := sq.Insert(tableCheckResults).Columns(checkResultColumns...)
		for i, r := range run.Results {
			builder = builder.Values(run.ID, i, r.Name, string(r.Aspect), string(r.Outcome), r.Detail, r.Duration.Microseconds())
		}
		query, args, err = builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get returns the run with its results, ordered as they were recorded.
func (s *RunStore) Get(ctx context.Context, id string) (*models.Run, error) {
	query, args, err := sq.Select(runColumns...).
		From(tableRuns).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}

	if run.Results, err = s.Results(ctx, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs newest first, each with its results.
func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(runColumns...).From(tableRuns).OrderBy("started_at DESC", "id")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Results, err = s.Results(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(tableRuns)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *RunStore) Results(ctx context.Context, runID string) ([]models.CheckResult, error) {
	query, args, err := sq.Select("name", "aspect", "outcome", "detail", "duration_us").
		From(tableCheckResults).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.CheckResult
	for rows.Next() {
		var (
			r       models.CheckResult
			aspect  string
			outcome string
			micros  int64
		)
		if err := rows.Scan(&r.Name, &aspect, &outcome, &r.Detail, &micros); err != nil {
			return nil, err
		}
		r.Aspect = models.Aspect(aspect)
		r.Outcome = models.ParseOutcome(outcome)
		r.Duration = time.Duration(micros) * time.Microsecond
		results = append(results, r)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var (
		run    models.Run
		passed bool
	)
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.ProvisionError, &passed)
	return run, err
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// OnlyFailed keeps the runs where at least one check did not pass.
func OnlyFailed() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"passed": false})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if limit == 0 {
			return b
		}
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
