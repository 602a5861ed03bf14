package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/service"
	"github.com/yourorg/hradmin/pkg/config"
)

type stubHistoryRepo struct {
	rows         []*domain.JoinedJobHistoryRow
	replacedOld  *domain.JobHistoryKey
	replacedRow  *domain.JobHistory
	insertedRows []*domain.JobHistory
}

func (s *stubHistoryRepo) ListByEmployee(ctx context.Context, empno string) ([]*domain.JoinedJobHistoryRow, error) {
	return s.rows, nil
}

func (s *stubHistoryRepo) ListByDepartment(ctx context.Context, deptcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return s.rows, nil
}

func (s *stubHistoryRepo) ListByJob(ctx context.Context, jobcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return s.rows, nil
}

func (s *stubHistoryRepo) Insert(ctx context.Context, row *domain.JobHistory) error {
	s.insertedRows = append(s.insertedRows, row)
	return nil
}

func (s *stubHistoryRepo) Replace(ctx context.Context, old domain.JobHistoryKey, row *domain.JobHistory) error {
	s.replacedOld = &old
	s.replacedRow = row
	return nil
}

func (s *stubHistoryRepo) Delete(ctx context.Context, key domain.JobHistoryKey) error {
	return nil
}

func (s *stubHistoryRepo) CountByDepartment(ctx context.Context, deptcode string) (int, error) {
	return 0, nil
}

func (s *stubHistoryRepo) CountByJob(ctx context.Context, jobcode string) (int, error) {
	return 0, nil
}

func historyDay(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func stubRow(empno, effdate string, salary *float64, separated bool) *domain.JoinedJobHistoryRow {
	return &domain.JoinedJobHistoryRow{
		JobHistory: domain.JobHistory{
			JobHistoryKey: domain.JobHistoryKey{Empno: empno, Effdate: historyDay(effdate), Jobcode: "DEV"},
			Salary:        salary,
		},
		JobDesc:      "Developer",
		DeptName:     "Engineering",
		EmployeeName: "Ada Lovelace",
		Separated:    separated,
	}
}

func TestDepartmentHistorySalaryDisplay(t *testing.T) {
	salary := 52000.0
	repo := &stubHistoryRepo{rows: []*domain.JoinedJobHistoryRow{
		stubRow("00065", "2022-03-01", &salary, false),
		stubRow("00067", "2021-01-01", nil, false),
	}}
	historyService := service.NewJobHistoryService(repo, config.HistoryAllRows, nil)
	h := NewDepartmentsHandler(nil, historyService, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/departments/{deptcode}/history", h.History)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/departments/ENG/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []HistoryRowResponse
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SalaryDisplay != "$52,000.00" {
		t.Fatalf("expected formatted salary, got %q", rows[0].SalaryDisplay)
	}
	if rows[1].SalaryDisplay != "N/A" {
		t.Fatalf("expected N/A for missing salary, got %q", rows[1].SalaryDisplay)
	}
	if rows[1].Salary != nil {
		t.Fatalf("expected nil raw salary, got %v", *rows[1].Salary)
	}
}

func TestDepartmentHistoryPolicyOverride(t *testing.T) {
	repo := &stubHistoryRepo{rows: []*domain.JoinedJobHistoryRow{
		stubRow("00065", "2020-01-01", nil, false),
		stubRow("00065", "2022-03-01", nil, false),
		stubRow("00067", "2021-01-01", nil, true), // separated
	}}
	historyService := service.NewJobHistoryService(repo, config.HistoryAllRows, nil)
	h := NewDepartmentsHandler(nil, historyService, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/departments/{deptcode}/history", h.History)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/departments/ENG/history?policy=latest", nil))

	var rows []HistoryRowResponse
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after latest reduction, got %d", len(rows))
	}
	if rows[0].Effdate != "2022-03-01" {
		t.Fatalf("expected latest effdate kept, got %s", rows[0].Effdate)
	}

	// Unknown policy is rejected
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/departments/ENG/history?policy=newest", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown policy, got %d", rec.Code)
	}
}

func TestReplaceHistoryEndpoint(t *testing.T) {
	repo := &stubHistoryRepo{}
	historyService := service.NewJobHistoryService(repo, config.HistoryAllRows, nil)
	h := NewHistoryHandler(historyService, nil, nil)

	body := `{
		"old": {"empno": "00065", "effdate": "2020-01-01", "jobcode": "DEV"},
		"row": {"empno": "00999", "effdate": "2022-03-01", "jobcode": "SRDEV", "salary": 60000}
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/history", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Replace(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.replacedOld == nil || repo.replacedOld.Empno != "00065" {
		t.Fatalf("expected replace keyed on original row, got %+v", repo.replacedOld)
	}
	if repo.replacedRow.Empno != "00065" {
		t.Fatalf("expected replacement pinned to original empno, got %s", repo.replacedRow.Empno)
	}

	var echoed HistoryRowPayload
	if err := json.NewDecoder(rec.Body).Decode(&echoed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if echoed.Empno != "00065" {
		t.Fatalf("expected response to carry the stored empno, got %s", echoed.Empno)
	}
}

func TestCreateHistoryEndpointValidation(t *testing.T) {
	repo := &stubHistoryRepo{}
	historyService := service.NewJobHistoryService(repo, config.HistoryAllRows, nil)
	h := NewHistoryHandler(historyService, nil, nil)

	// Malformed date fails validation before the service runs
	body := `{"empno": "00065", "effdate": "01/02/2020", "jobcode": "DEV"}`
	req := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
	if len(repo.insertedRows) != 0 {
		t.Fatalf("expected no insert on validation failure")
	}
}
