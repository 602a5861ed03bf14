package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresJobRepository implements domain.JobRepository using PostgreSQL
type PostgresJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresJobRepository creates a new job repository
func NewPostgresJobRepository(db *sql.DB, logger *slog.Logger) *PostgresJobRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all jobs ordered by code
func (r *PostgresJobRepository) List(ctx context.Context) ([]*domain.Job, error) {
	query := `
		SELECT jobcode, jobdesc
		FROM job
		ORDER BY jobcode ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list jobs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		j := &domain.Job{}
		if err := rows.Scan(&j.Jobcode, &j.Jobdesc); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// Get retrieves one job by code
func (r *PostgresJobRepository) Get(ctx context.Context, jobcode string) (*domain.Job, error) {
	j := &domain.Job{}

	query := `
		SELECT jobcode, jobdesc
		FROM job
		WHERE jobcode = $1
	`

	err := r.db.QueryRowContext(ctx, query, jobcode).Scan(&j.Jobcode, &j.Jobdesc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return j, nil
}

// Create inserts a new job
func (r *PostgresJobRepository) Create(ctx context.Context, j *domain.Job) error {
	query := `
		INSERT INTO job (jobcode, jobdesc)
		VALUES ($1, $2)
	`

	if _, err := r.db.ExecContext(ctx, query, j.Jobcode, j.Jobdesc); err != nil {
		r.logger.Error("failed to create job",
			slog.String("jobcode", j.Jobcode),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create job: %w", translate(err))
	}

	return nil
}

// Update rewrites the job description
func (r *PostgresJobRepository) Update(ctx context.Context, j *domain.Job) error {
	query := `
		UPDATE job
		SET jobdesc = $1
		WHERE jobcode = $2
	`

	result, err := r.db.ExecContext(ctx, query, j.Jobdesc, j.Jobcode)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", translate(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a job
func (r *PostgresJobRepository) Delete(ctx context.Context, jobcode string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job WHERE jobcode = $1`, jobcode)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", translate(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
