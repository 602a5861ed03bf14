package domain

import (
	"context"
	"time"
)

// Employee is a personnel record. Empno is a client-chosen, zero-padded
// numeric string and never changes after creation.
type Employee struct {
	Empno     string
	Firstname string
	Lastname  string
	Gender    string // single character
	Birthdate time.Time
	Hiredate  time.Time
	Sepdate   *time.Time // nil while still employed
}

// Separated reports whether the employee has a separation date on record.
func (e *Employee) Separated() bool {
	return e.Sepdate != nil
}

// Department groups employees. Deptname may be empty.
type Department struct {
	Deptcode string // unique, max 20 chars
	Deptname string // max 100 chars
}

// Job is a position definition.
type Job struct {
	Jobcode string // unique
	Jobdesc string // required
}

// JobHistoryKey is the composite primary key of a job history row. The key
// cannot be partially altered in place: any key change is a delete of the
// old key plus an insert of the new row.
type JobHistoryKey struct {
	Empno   string
	Effdate time.Time
	Jobcode string
}

// JobHistory records an employee holding a job from an effective date.
type JobHistory struct {
	JobHistoryKey
	Deptcode *string  // nil when no department assigned
	Salary   *float64 // nil when unknown
}

// JoinedJobHistoryRow is a job history row enriched with the joined job,
// department, and employee attributes used by list views. Missing joins
// carry "Unknown" rather than failing the whole fetch.
type JoinedJobHistoryRow struct {
	JobHistory
	JobDesc      string
	DeptName     string
	EmployeeName string
	Separated    bool
}

// EmployeeRepository defines data access for employees.
type EmployeeRepository interface {
	List(ctx context.Context, query string) ([]*Employee, error)
	Get(ctx context.Context, empno string) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	// DeleteWithHistory removes the employee and all of its job history rows
	// in one transaction; there is no database-enforced cascade.
	DeleteWithHistory(ctx context.Context, empno string) error
	// MaxEmpno returns the highest empno by descending string order, or
	// ErrNotFound when no employees exist.
	MaxEmpno(ctx context.Context) (string, error)
}

// DepartmentRepository defines data access for departments.
type DepartmentRepository interface {
	List(ctx context.Context) ([]*Department, error)
	Get(ctx context.Context, deptcode string) (*Department, error)
	Create(ctx context.Context, d *Department) error
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, deptcode string) error
}

// JobRepository defines data access for jobs.
type JobRepository interface {
	List(ctx context.Context) ([]*Job, error)
	Get(ctx context.Context, jobcode string) (*Job, error)
	Create(ctx context.Context, j *Job) error
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, jobcode string) error
}

// JobHistoryRepository defines data access for job history rows.
type JobHistoryRepository interface {
	ListByEmployee(ctx context.Context, empno string) ([]*JoinedJobHistoryRow, error)
	ListByDepartment(ctx context.Context, deptcode string) ([]*JoinedJobHistoryRow, error)
	ListByJob(ctx context.Context, jobcode string) ([]*JoinedJobHistoryRow, error)
	Insert(ctx context.Context, row *JobHistory) error
	// Replace deletes the row matching old and inserts row in a single
	// transaction, so a failed insert never loses the original record.
	Replace(ctx context.Context, old JobHistoryKey, row *JobHistory) error
	Delete(ctx context.Context, key JobHistoryKey) error
	CountByDepartment(ctx context.Context, deptcode string) (int, error)
	CountByJob(ctx context.Context, jobcode string) (int, error)
}
