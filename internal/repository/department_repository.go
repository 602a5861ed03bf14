package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresDepartmentRepository implements domain.DepartmentRepository using PostgreSQL
type PostgresDepartmentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresDepartmentRepository creates a new department repository
func NewPostgresDepartmentRepository(db *sql.DB, logger *slog.Logger) *PostgresDepartmentRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDepartmentRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all departments ordered by code
func (r *PostgresDepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	query := `
		SELECT deptcode, COALESCE(deptname, '')
		FROM department
		ORDER BY deptcode ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list departments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []*domain.Department
	for rows.Next() {
		d := &domain.Department{}
		if err := rows.Scan(&d.Deptcode, &d.Deptname); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// Get retrieves one department by code
func (r *PostgresDepartmentRepository) Get(ctx context.Context, deptcode string) (*domain.Department, error) {
	d := &domain.Department{}

	query := `
		SELECT deptcode, COALESCE(deptname, '')
		FROM department
		WHERE deptcode = $1
	`

	err := r.db.QueryRowContext(ctx, query, deptcode).Scan(&d.Deptcode, &d.Deptname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return d, nil
}

// Create inserts a new department
func (r *PostgresDepartmentRepository) Create(ctx context.Context, d *domain.Department) error {
	query := `
		INSERT INTO department (deptcode, deptname)
		VALUES ($1, NULLIF($2, ''))
	`

	if _, err := r.db.ExecContext(ctx, query, d.Deptcode, d.Deptname); err != nil {
		r.logger.Error("failed to create department",
			slog.String("deptcode", d.Deptcode),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create department: %w", translate(err))
	}

	return nil
}

// Update rewrites the department name
func (r *PostgresDepartmentRepository) Update(ctx context.Context, d *domain.Department) error {
	query := `
		UPDATE department
		SET deptname = NULLIF($1, '')
		WHERE deptcode = $2
	`

	result, err := r.db.ExecContext(ctx, query, d.Deptname, d.Deptcode)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", translate(err))
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

// Delete removes a department. Callers check for job history references
// first; a foreign key rejection still translates to domain.ErrReferenced.
func (r *PostgresDepartmentRepository) Delete(ctx context.Context, deptcode string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM department WHERE deptcode = $1`, deptcode)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", translate(err))
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
