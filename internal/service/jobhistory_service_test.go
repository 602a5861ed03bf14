package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/pkg/config"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func joined(empno, effdate, jobcode string, separated bool) *domain.JoinedJobHistoryRow {
	return &domain.JoinedJobHistoryRow{
		JobHistory: domain.JobHistory{
			JobHistoryKey: domain.JobHistoryKey{
				Empno:   empno,
				Effdate: day(effdate),
				Jobcode: jobcode,
			},
		},
		Separated: separated,
	}
}

func TestLatestPerEmployeeReduction(t *testing.T) {
	repo := newMemHistoryRepo()
	repo.rows = []*domain.JoinedJobHistoryRow{
		joined("00065", "2020-01-01", "DEV", false),
		joined("00067", "2021-06-15", "MGR", true), // separated, must be dropped
		joined("00065", "2022-03-01", "SRDEV", false),
		joined("00069", "2019-09-09", "QA", false),
	}
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	rows, err := s.ListByDepartment(context.Background(), "ENG", config.HistoryLatestPerEmployee)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Empno != "00065" || rows[0].Jobcode != "SRDEV" {
		t.Fatalf("expected latest row for 00065, got %s/%s", rows[0].Empno, rows[0].Jobcode)
	}
	if rows[1].Empno != "00069" {
		t.Fatalf("expected 00069 second (first-seen order), got %s", rows[1].Empno)
	}
}

func TestLatestPerEmployeeTieKeepsFirst(t *testing.T) {
	repo := newMemHistoryRepo()
	repo.rows = []*domain.JoinedJobHistoryRow{
		joined("00065", "2022-03-01", "DEV", false),
		joined("00065", "2022-03-01", "MGR", false), // equal date: first row wins
	}
	s := NewJobHistoryService(repo, config.HistoryLatestPerEmployee, nil)

	rows, err := s.ListByJob(context.Background(), "DEV", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Jobcode != "DEV" {
		t.Fatalf("expected first row kept on date tie, got %+v", rows)
	}
}

func TestListDefaultPolicyReturnsAllRows(t *testing.T) {
	repo := newMemHistoryRepo()
	repo.rows = []*domain.JoinedJobHistoryRow{
		joined("00065", "2020-01-01", "DEV", false),
		joined("00065", "2022-03-01", "SRDEV", false),
	}
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	rows, err := s.ListByDepartment(context.Background(), "ENG", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected all rows under default policy, got %d", len(rows))
	}
}

func TestListUnknownPolicyRejected(t *testing.T) {
	s := NewJobHistoryService(newMemHistoryRepo(), config.HistoryAllRows, nil)

	if _, err := s.ListByJob(context.Background(), "DEV", "newest"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown policy, got %v", err)
	}
}

func TestReplaceForcesOriginalEmpno(t *testing.T) {
	repo := newMemHistoryRepo()
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	old := domain.JobHistoryKey{Empno: "00065", Effdate: day("2020-01-01"), Jobcode: "DEV"}
	row := &domain.JobHistory{
		JobHistoryKey: domain.JobHistoryKey{
			Empno:   "00999", // must be overridden
			Effdate: day("2022-03-01"),
			Jobcode: "SRDEV",
		},
	}

	if err := s.Replace(context.Background(), old, row); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(repo.replaceCalls) != 1 {
		t.Fatalf("expected one replace call, got %d", len(repo.replaceCalls))
	}
	if got := repo.replaceCalls[0].row.Empno; got != "00065" {
		t.Fatalf("expected replacement pinned to original empno, got %s", got)
	}
}

func TestReplaceIncompleteKeyRejected(t *testing.T) {
	repo := newMemHistoryRepo()
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	old := domain.JobHistoryKey{Empno: "00065"} // missing effdate and jobcode
	row := &domain.JobHistory{JobHistoryKey: domain.JobHistoryKey{Empno: "00065", Effdate: day("2022-03-01"), Jobcode: "DEV"}}

	if err := s.Replace(context.Background(), old, row); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.replaceCalls) != 0 {
		t.Fatalf("expected no store call for incomplete key")
	}
}

func TestCreateNormalizesBlankDeptcode(t *testing.T) {
	repo := newMemHistoryRepo()
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	blank := "  "
	row := &domain.JobHistory{
		JobHistoryKey: domain.JobHistoryKey{Empno: "00065", Effdate: day("2020-01-01"), Jobcode: "DEV"},
		Deptcode:      &blank,
	}
	if err := s.Create(context.Background(), row); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
	if repo.inserted[0].Deptcode != nil {
		t.Fatalf("expected blank deptcode stored as nil, got %q", *repo.inserted[0].Deptcode)
	}
}

func TestCreateValidationBlocksStore(t *testing.T) {
	repo := newMemHistoryRepo()
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	row := &domain.JobHistory{
		JobHistoryKey: domain.JobHistoryKey{Empno: "00065", Effdate: day("2020-01-01")}, // no jobcode
	}
	if err := s.Create(context.Background(), row); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected no insert on validation failure")
	}
}

func TestDeleteRequiresFullKey(t *testing.T) {
	repo := newMemHistoryRepo()
	s := NewJobHistoryService(repo, config.HistoryAllRows, nil)

	key := domain.JobHistoryKey{Empno: "00065", Jobcode: "DEV"} // no effdate
	if err := s.Delete(context.Background(), key); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.deleteCalls) != 0 {
		t.Fatalf("expected no delete call for partial key")
	}
}
