package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresJobHistoryRepository implements domain.JobHistoryRepository using PostgreSQL
type PostgresJobHistoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresJobHistoryRepository creates a new job history repository
func NewPostgresJobHistoryRepository(db *sql.DB, logger *slog.Logger) *PostgresJobHistoryRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// joinedSelect pulls history rows with their job, department, and employee
// attributes. Left joins keep rows whose references are missing; those render
// as "Unknown" instead of failing the fetch.
const joinedSelect = `
	SELECT h.empno, h.effdate, h.jobcode, h.deptcode, h.salary,
	       COALESCE(j.jobdesc, 'Unknown'),
	       COALESCE(d.deptname, 'Unknown'),
	       COALESCE(TRIM(COALESCE(e.firstname, '') || ' ' || COALESCE(e.lastname, '')), 'Unknown'),
	       e.sepdate IS NOT NULL
	FROM jobhistory h
	LEFT JOIN job j ON j.jobcode = h.jobcode
	LEFT JOIN department d ON d.deptcode = h.deptcode
	LEFT JOIN employee e ON e.empno = h.empno
`

// ListByEmployee returns an employee's history, newest effective date first
func (r *PostgresJobHistoryRepository) ListByEmployee(ctx context.Context, empno string) ([]*domain.JoinedJobHistoryRow, error) {
	return r.listJoined(ctx, "h.empno = $1", empno)
}

// ListByDepartment returns all history rows referencing a department
func (r *PostgresJobHistoryRepository) ListByDepartment(ctx context.Context, deptcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return r.listJoined(ctx, "h.deptcode = $1", deptcode)
}

// ListByJob returns all history rows referencing a job
func (r *PostgresJobHistoryRepository) ListByJob(ctx context.Context, jobcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return r.listJoined(ctx, "h.jobcode = $1", jobcode)
}

func (r *PostgresJobHistoryRepository) listJoined(ctx context.Context, where, arg string) ([]*domain.JoinedJobHistoryRow, error) {
	query := joinedSelect + " WHERE " + where + " ORDER BY h.effdate DESC"

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		r.logger.Error("failed to list job history", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list job history: %w", err)
	}
	defer rows.Close()

	var out []*domain.JoinedJobHistoryRow
	for rows.Next() {
		row := &domain.JoinedJobHistoryRow{}
		var deptcode sql.NullString
		var salary sql.NullFloat64
		var name string
		if err := rows.Scan(
			&row.Empno, &row.Effdate, &row.Jobcode, &deptcode, &salary,
			&row.JobDesc, &row.DeptName, &name, &row.Separated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job history row: %w", err)
		}
		if deptcode.Valid {
			s := deptcode.String
			row.Deptcode = &s
		}
		if salary.Valid {
			v := salary.Float64
			row.Salary = &v
		}
		if strings.TrimSpace(name) == "" {
			name = "Unknown"
		}
		row.EmployeeName = name
		out = append(out, row)
	}

	return out, rows.Err()
}

// Insert creates a new history row
func (r *PostgresJobHistoryRepository) Insert(ctx context.Context, row *domain.JobHistory) error {
	query := `
		INSERT INTO jobhistory (empno, effdate, jobcode, deptcode, salary)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		row.Empno, row.Effdate, row.Jobcode, nullString(row.Deptcode), nullFloat(row.Salary),
	)
	if err != nil {
		r.logger.Error("failed to insert job history",
			slog.String("empno", row.Empno),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to insert job history: %w", translate(err))
	}

	return nil
}

// Replace deletes the row under the old composite key and inserts the new
// row in one transaction. The composite key cannot be updated in place, and
// the transaction keeps a failed insert from losing the original record.
func (r *PostgresJobHistoryRepository) Replace(ctx context.Context, old domain.JobHistoryKey, row *domain.JobHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM jobhistory WHERE empno = $1 AND effdate = $2 AND jobcode = $3`,
		old.Empno, old.Effdate, old.Jobcode,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old job history row: %w", translate(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO jobhistory (empno, effdate, jobcode, deptcode, salary) VALUES ($1, $2, $3, $4, $5)`,
		row.Empno, row.Effdate, row.Jobcode, nullString(row.Deptcode), nullFloat(row.Salary),
	)
	if err != nil {
		return fmt.Errorf("failed to insert replacement row: %w", translate(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	return nil
}

// Delete removes the row matching the full composite key
func (r *PostgresJobHistoryRepository) Delete(ctx context.Context, key domain.JobHistoryKey) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobhistory WHERE empno = $1 AND effdate = $2 AND jobcode = $3`,
		key.Empno, key.Effdate, key.Jobcode,
	)
	if err != nil {
		return fmt.Errorf("failed to delete job history: %w", translate(err))
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

// CountByDepartment counts history rows referencing a department
func (r *PostgresJobHistoryRepository) CountByDepartment(ctx context.Context, deptcode string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM jobhistory WHERE deptcode = $1`, deptcode)
}

// CountByJob counts history rows referencing a job
func (r *PostgresJobHistoryRepository) CountByJob(ctx context.Context, jobcode string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM jobhistory WHERE jobcode = $1`, jobcode)
}

func (r *PostgresJobHistoryRepository) count(ctx context.Context, query, arg string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count job history: %w", err)
	}
	return n, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
