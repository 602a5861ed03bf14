package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/observability/metrics"
	"github.com/yourorg/hradmin/pkg/config"
)

// JobHistoryService reconciles UI intents against the composite-keyed
// jobhistory table. Key changes are never partial updates: the old key is
// deleted and the new row inserted in one transaction.
type JobHistoryService struct {
	history       domain.JobHistoryRepository
	defaultPolicy config.HistoryListPolicy
	logger        *slog.Logger
}

// NewJobHistoryService creates a new job history service
func NewJobHistoryService(
	history domain.JobHistoryRepository,
	defaultPolicy config.HistoryListPolicy,
	logger *slog.Logger,
) *JobHistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultPolicy == "" {
		defaultPolicy = config.HistoryAllRows
	}

	return &JobHistoryService{
		history:       history,
		defaultPolicy: defaultPolicy,
		logger:        logger,
	}
}

// DefaultPolicy returns the configured list reduction policy
func (s *JobHistoryService) DefaultPolicy() config.HistoryListPolicy {
	return s.defaultPolicy
}

// ListByEmployee returns an employee's full history, newest first
func (s *JobHistoryService) ListByEmployee(ctx context.Context, empno string) ([]*domain.JoinedJobHistoryRow, error) {
	if empno == "" {
		return nil, fmt.Errorf("%w: empno is required", domain.ErrValidation)
	}
	return s.history.ListByEmployee(ctx, empno)
}

// ListByDepartment returns history rows for a department under the given
// policy; an empty policy uses the configured default.
func (s *JobHistoryService) ListByDepartment(ctx context.Context, deptcode string, policy config.HistoryListPolicy) ([]*domain.JoinedJobHistoryRow, error) {
	if deptcode == "" {
		return nil, fmt.Errorf("%w: deptcode is required", domain.ErrValidation)
	}
	rows, err := s.history.ListByDepartment(ctx, deptcode)
	if err != nil {
		return nil, err
	}
	return s.applyPolicy(rows, policy)
}

// ListByJob returns history rows for a job under the given policy
func (s *JobHistoryService) ListByJob(ctx context.Context, jobcode string, policy config.HistoryListPolicy) ([]*domain.JoinedJobHistoryRow, error) {
	if jobcode == "" {
		return nil, fmt.Errorf("%w: jobcode is required", domain.ErrValidation)
	}
	rows, err := s.history.ListByJob(ctx, jobcode)
	if err != nil {
		return nil, err
	}
	return s.applyPolicy(rows, policy)
}

func (s *JobHistoryService) applyPolicy(rows []*domain.JoinedJobHistoryRow, policy config.HistoryListPolicy) ([]*domain.JoinedJobHistoryRow, error) {
	if policy == "" {
		policy = s.defaultPolicy
	}
	switch policy {
	case config.HistoryAllRows:
		return rows, nil
	case config.HistoryLatestPerEmployee:
		return latestPerEmployee(rows), nil
	default:
		return nil, fmt.Errorf("%w: unknown history list policy %q", domain.ErrValidation, policy)
	}
}

// latestPerEmployee drops rows belonging to separated employees, then keeps
// one row per empno: the one with the latest effective date. A later row
// replaces an earlier one only on a strictly greater date, so equal dates
// keep the first row seen.
func latestPerEmployee(rows []*domain.JoinedJobHistoryRow) []*domain.JoinedJobHistoryRow {
	latest := make(map[string]*domain.JoinedJobHistoryRow)
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		if row.Separated {
			continue
		}
		current, seen := latest[row.Empno]
		if !seen {
			latest[row.Empno] = row
			order = append(order, row.Empno)
			continue
		}
		if row.Effdate.After(current.Effdate) {
			latest[row.Empno] = row
		}
	}

	out := make([]*domain.JoinedJobHistoryRow, 0, len(order))
	for _, empno := range order {
		out = append(out, latest[empno])
	}
	return out
}

// Create validates and inserts a new history row. Blank department and
// salary are stored as NULL, never as empty string or zero.
func (s *JobHistoryService) Create(ctx context.Context, row *domain.JobHistory) error {
	if err := validateHistoryRow(row); err != nil {
		return err
	}
	normalizeHistoryRow(row)

	if err := s.history.Insert(ctx, row); err != nil {
		metrics.ObserveMutation("jobhistory", "create", "error")
		return err
	}

	metrics.ObserveMutation("jobhistory", "create", "ok")
	return nil
}

// Replace rewrites a history row identified by its original composite key.
// The employee number never changes: the replacement row always carries the
// original empno, whatever the caller submitted.
func (s *JobHistoryService) Replace(ctx context.Context, old domain.JobHistoryKey, row *domain.JobHistory) error {
	if old.Empno == "" || old.Effdate.IsZero() || old.Jobcode == "" {
		return fmt.Errorf("%w: original key is incomplete", domain.ErrValidation)
	}
	row.Empno = old.Empno
	if err := validateHistoryRow(row); err != nil {
		return err
	}
	normalizeHistoryRow(row)

	if err := s.history.Replace(ctx, old, row); err != nil {
		metrics.ObserveMutation("jobhistory", "replace", "error")
		return err
	}

	metrics.ObserveMutation("jobhistory", "replace", "ok")
	s.logger.Info("job history row replaced",
		slog.String("empno", old.Empno),
		slog.Time("old_effdate", old.Effdate),
		slog.Time("new_effdate", row.Effdate),
	)
	return nil
}

// Delete removes the row matching the full composite key
func (s *JobHistoryService) Delete(ctx context.Context, key domain.JobHistoryKey) error {
	if key.Empno == "" || key.Effdate.IsZero() || key.Jobcode == "" {
		return fmt.Errorf("%w: key is incomplete", domain.ErrValidation)
	}

	if err := s.history.Delete(ctx, key); err != nil {
		metrics.ObserveMutation("jobhistory", "delete", "error")
		return err
	}

	metrics.ObserveMutation("jobhistory", "delete", "ok")
	return nil
}

func validateHistoryRow(row *domain.JobHistory) error {
	if strings.TrimSpace(row.Empno) == "" {
		return fmt.Errorf("%w: empno is required", domain.ErrValidation)
	}
	if row.Effdate.IsZero() {
		return fmt.Errorf("%w: effdate is required", domain.ErrValidation)
	}
	if strings.TrimSpace(row.Jobcode) == "" {
		return fmt.Errorf("%w: jobcode is required", domain.ErrValidation)
	}
	return nil
}

func normalizeHistoryRow(row *domain.JobHistory) {
	if row.Deptcode != nil && strings.TrimSpace(*row.Deptcode) == "" {
		row.Deptcode = nil
	}
}
