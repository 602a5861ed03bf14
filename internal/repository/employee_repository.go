package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresEmployeeRepository implements domain.EmployeeRepository using PostgreSQL
type PostgresEmployeeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresEmployeeRepository creates a new employee repository
func NewPostgresEmployeeRepository(db *sql.DB, logger *slog.Logger) *PostgresEmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// List returns employees ordered by last name, optionally filtered by a
// name/empno substring.
func (r *PostgresEmployeeRepository) List(ctx context.Context, query string) ([]*domain.Employee, error) {
	stmt := `
		SELECT empno, firstname, lastname, gender, birthdate, hiredate, sepdate
		FROM employee
	`
	args := []interface{}{}
	if query != "" {
		stmt += `
		WHERE lower(firstname) LIKE $1 OR lower(lastname) LIKE $1 OR lower(empno) LIKE $1
		`
		args = append(args, "%"+query+"%")
	}
	stmt += ` ORDER BY lastname ASC`

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		r.logger.Error("failed to list employees", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		e := &domain.Employee{}
		var sepdate sql.NullTime
		if err := rows.Scan(&e.Empno, &e.Firstname, &e.Lastname, &e.Gender, &e.Birthdate, &e.Hiredate, &sepdate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if sepdate.Valid {
			t := sepdate.Time
			e.Sepdate = &t
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// Get retrieves one employee by empno
func (r *PostgresEmployeeRepository) Get(ctx context.Context, empno string) (*domain.Employee, error) {
	e := &domain.Employee{}
	var sepdate sql.NullTime

	query := `
		SELECT empno, firstname, lastname, gender, birthdate, hiredate, sepdate
		FROM employee
		WHERE empno = $1
	`

	err := r.db.QueryRowContext(ctx, query, empno).Scan(
		&e.Empno, &e.Firstname, &e.Lastname, &e.Gender, &e.Birthdate, &e.Hiredate, &sepdate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if sepdate.Valid {
		t := sepdate.Time
		e.Sepdate = &t
	}

	return e, nil
}

// Create inserts a new employee
func (r *PostgresEmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	query := `
		INSERT INTO employee (empno, firstname, lastname, gender, birthdate, hiredate, sepdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.Empno, e.Firstname, e.Lastname, e.Gender, e.Birthdate, e.Hiredate, nullTime(e.Sepdate),
	)
	if err != nil {
		r.logger.Error("failed to create employee",
			slog.String("empno", e.Empno),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create employee: %w", translate(err))
	}

	return nil
}

// Update rewrites the non-key fields of an employee
func (r *PostgresEmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `
		UPDATE employee
		SET firstname = $1, lastname = $2, gender = $3, birthdate = $4, hiredate = $5, sepdate = $6
		WHERE empno = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		e.Firstname, e.Lastname, e.Gender, e.Birthdate, e.Hiredate, nullTime(e.Sepdate), e.Empno,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", translate(err))
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

// DeleteWithHistory removes the employee's job history rows and then the
// employee itself in one transaction, since no database cascade is defined.
func (r *PostgresEmployeeRepository) DeleteWithHistory(ctx context.Context, empno string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobhistory WHERE empno = $1`, empno); err != nil {
		return fmt.Errorf("failed to delete job history: %w", translate(err))
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM employee WHERE empno = $1`, empno)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", translate(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// MaxEmpno returns the highest empno by descending string order
func (r *PostgresEmployeeRepository) MaxEmpno(ctx context.Context) (string, error) {
	var empno string

	query := `
		SELECT empno
		FROM employee
		ORDER BY empno DESC
		LIMIT 1
	`

	err := r.db.QueryRowContext(ctx, query).Scan(&empno)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to get max empno: %w", err)
	}

	return empno, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
