package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/observability/metrics"
)

// DirectoryService handles the department and job reference tables. Both
// share the same deletion rule: a code still referenced by job history
// cannot be removed, and the check runs before the delete is attempted.
type DirectoryService struct {
	departments domain.DepartmentRepository
	jobs        domain.JobRepository
	history     domain.JobHistoryRepository
	logger      *slog.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(
	departments domain.DepartmentRepository,
	jobs domain.JobRepository,
	history domain.JobHistoryRepository,
	logger *slog.Logger,
) *DirectoryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DirectoryService{
		departments: departments,
		jobs:        jobs,
		history:     history,
		logger:      logger,
	}
}

// ListDepartments returns all departments
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]*domain.Department, error) {
	return s.departments.List(ctx)
}

// CreateDepartment validates and inserts a department
func (s *DirectoryService) CreateDepartment(ctx context.Context, d *domain.Department) error {
	if err := validateDepartment(d); err != nil {
		return err
	}

	if err := s.departments.Create(ctx, d); err != nil {
		metrics.ObserveMutation("department", "create", "error")
		return err
	}

	metrics.ObserveMutation("department", "create", "ok")
	return nil
}

// UpdateDepartment validates and rewrites a department name
func (s *DirectoryService) UpdateDepartment(ctx context.Context, d *domain.Department) error {
	if err := validateDepartment(d); err != nil {
		return err
	}

	if err := s.departments.Update(ctx, d); err != nil {
		metrics.ObserveMutation("department", "update", "error")
		return err
	}

	metrics.ObserveMutation("department", "update", "ok")
	return nil
}

// DeleteDepartment removes a department unless job history references it.
// The pre-check leaves the department and every referencing row untouched
// on conflict.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, deptcode string) error {
	n, err := s.history.CountByDepartment(ctx, deptcode)
	if err != nil {
		return fmt.Errorf("failed to check department references: %w", err)
	}
	if n > 0 {
		s.logger.Info("department delete blocked by references",
			slog.String("deptcode", deptcode),
			slog.Int("references", n),
		)
		return fmt.Errorf("%w: department has %d job history records", domain.ErrReferenced, n)
	}

	if err := s.departments.Delete(ctx, deptcode); err != nil {
		metrics.ObserveMutation("department", "delete", "error")
		return err
	}

	metrics.ObserveMutation("department", "delete", "ok")
	return nil
}

// ListJobs returns all jobs
func (s *DirectoryService) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	return s.jobs.List(ctx)
}

// CreateJob validates and inserts a job
func (s *DirectoryService) CreateJob(ctx context.Context, j *domain.Job) error {
	if err := validateJob(j); err != nil {
		return err
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		metrics.ObserveMutation("job", "create", "error")
		return err
	}

	metrics.ObserveMutation("job", "create", "ok")
	return nil
}

// UpdateJob validates and rewrites a job description
func (s *DirectoryService) UpdateJob(ctx context.Context, j *domain.Job) error {
	if err := validateJob(j); err != nil {
		return err
	}

	if err := s.jobs.Update(ctx, j); err != nil {
		metrics.ObserveMutation("job", "update", "error")
		return err
	}

	metrics.ObserveMutation("job", "update", "ok")
	return nil
}

// DeleteJob removes a job unless job history references it
func (s *DirectoryService) DeleteJob(ctx context.Context, jobcode string) error {
	n, err := s.history.CountByJob(ctx, jobcode)
	if err != nil {
		return fmt.Errorf("failed to check job references: %w", err)
	}
	if n > 0 {
		s.logger.Info("job delete blocked by references",
			slog.String("jobcode", jobcode),
			slog.Int("references", n),
		)
		return fmt.Errorf("%w: job has %d job history records", domain.ErrReferenced, n)
	}

	if err := s.jobs.Delete(ctx, jobcode); err != nil {
		metrics.ObserveMutation("job", "delete", "error")
		return err
	}

	metrics.ObserveMutation("job", "delete", "ok")
	return nil
}

func validateDepartment(d *domain.Department) error {
	code := strings.TrimSpace(d.Deptcode)
	if code == "" {
		return fmt.Errorf("%w: deptcode is required", domain.ErrValidation)
	}
	if len(code) > 20 {
		return fmt.Errorf("%w: deptcode must be at most 20 characters", domain.ErrValidation)
	}
	if len(d.Deptname) > 100 {
		return fmt.Errorf("%w: deptname must be at most 100 characters", domain.ErrValidation)
	}
	return nil
}

func validateJob(j *domain.Job) error {
	if strings.TrimSpace(j.Jobcode) == "" {
		return fmt.Errorf("%w: jobcode is required", domain.ErrValidation)
	}
	if strings.TrimSpace(j.Jobdesc) == "" {
		return fmt.Errorf("%w: jobdesc is required", domain.ErrValidation)
	}
	return nil
}
