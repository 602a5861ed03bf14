package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/observability/metrics"
)

const (
	// defaultEmpnoBase seeds the first proposed employee number when no
	// employees exist or the current maximum is not numeric.
	defaultEmpnoBase = 65
	empnoWidth       = 5
)

// EmployeeService handles employee records
type EmployeeService struct {
	employees domain.EmployeeRepository
	logger    *slog.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employees domain.EmployeeRepository, logger *slog.Logger) *EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}

	return &EmployeeService{
		employees: employees,
		logger:    logger,
	}
}

// List returns employees, optionally filtered by a name/empno substring
func (s *EmployeeService) List(ctx context.Context, query string) ([]*domain.Employee, error) {
	return s.employees.List(ctx, strings.ToLower(strings.TrimSpace(query)))
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, empno string) (*domain.Employee, error) {
	return s.employees.Get(ctx, empno)
}

// ProposeNextEmpno reads the current maximum employee number and proposes
// max+2, zero-padded. Non-numeric maximums and an empty table both fall back
// to the default base.
func (s *EmployeeService) ProposeNextEmpno(ctx context.Context) (string, error) {
	next := defaultEmpnoBase

	max, err := s.employees.MaxEmpno(ctx)
	switch {
	case err == nil:
		if last, perr := strconv.Atoi(max); perr == nil {
			next = last + 2
		}
	case err == domain.ErrNotFound:
		// keep default
	default:
		return "", fmt.Errorf("failed to propose empno: %w", err)
	}

	return fmt.Sprintf("%0*d", empnoWidth, next), nil
}

// Create validates and inserts a new employee. Validation failures block
// the request before any store call.
func (s *EmployeeService) Create(ctx context.Context, e *domain.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}

	if err := s.employees.Create(ctx, e); err != nil {
		metrics.ObserveMutation("employee", "create", "error")
		return err
	}

	metrics.ObserveMutation("employee", "create", "ok")
	s.logger.Info("employee created", slog.String("empno", e.Empno))
	return nil
}

// Update validates and rewrites an employee's non-key fields
func (s *EmployeeService) Update(ctx context.Context, e *domain.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}

	if err := s.employees.Update(ctx, e); err != nil {
		metrics.ObserveMutation("employee", "update", "error")
		return err
	}

	metrics.ObserveMutation("employee", "update", "ok")
	return nil
}

// Delete removes an employee and all of its job history rows. The history
// rows go first, in the same transaction, since the store enforces no
// cascade.
func (s *EmployeeService) Delete(ctx context.Context, empno string) error {
	if empno == "" {
		return fmt.Errorf("%w: empno is required", domain.ErrValidation)
	}

	if err := s.employees.DeleteWithHistory(ctx, empno); err != nil {
		metrics.ObserveMutation("employee", "delete", "error")
		return err
	}

	metrics.ObserveMutation("employee", "delete", "ok")
	s.logger.Info("employee deleted with job history", slog.String("empno", empno))
	return nil
}

func validateEmployee(e *domain.Employee) error {
	if strings.TrimSpace(e.Empno) == "" {
		return fmt.Errorf("%w: empno is required", domain.ErrValidation)
	}
	if strings.TrimSpace(e.Firstname) == "" {
		return fmt.Errorf("%w: firstname is required", domain.ErrValidation)
	}
	if strings.TrimSpace(e.Lastname) == "" {
		return fmt.Errorf("%w: lastname is required", domain.ErrValidation)
	}
	if len(e.Gender) > 1 {
		return fmt.Errorf("%w: gender must be a single character", domain.ErrValidation)
	}
	if e.Birthdate.IsZero() || e.Hiredate.IsZero() {
		return fmt.Errorf("%w: birthdate and hiredate are required", domain.ErrValidation)
	}
	return nil
}
