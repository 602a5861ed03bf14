package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
)

func TestProposeNextEmpno(t *testing.T) {
	tests := []struct {
		name     string
		maxEmpno string
		maxErr   error
		want     string
	}{
		{name: "skips one number past the maximum", maxEmpno: "00099", want: "00101"},
		{name: "empty table falls back to the default base", maxErr: domain.ErrNotFound, want: "00065"},
		{name: "non-numeric maximum falls back to the default base", maxEmpno: "A1234", want: "00065"},
		{name: "unpadded maximum still pads the proposal", maxEmpno: "99", want: "00101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemEmployeeRepo()
			repo.maxEmpno = tt.maxEmpno
			repo.maxErr = tt.maxErr
			s := NewEmployeeService(repo, nil)

			got, err := s.ProposeNextEmpno(context.Background())
			if err != nil {
				t.Fatalf("propose failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestProposeNextEmpnoStoreError(t *testing.T) {
	repo := newMemEmployeeRepo()
	repo.maxErr = errors.New("connection refused")
	s := NewEmployeeService(repo, nil)

	if _, err := s.ProposeNextEmpno(context.Background()); err == nil {
		t.Fatalf("expected error when store is down")
	}
}

func validEmployee() *domain.Employee {
	return &domain.Employee{
		Empno:     "00065",
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Gender:    "F",
		Birthdate: day("1990-12-10"),
		Hiredate:  day("2015-06-01"),
	}
}

func TestCreateEmployeeValidationBlocksStore(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Employee)
	}{
		{name: "blank firstname", mutate: func(e *domain.Employee) { e.Firstname = "  " }},
		{name: "blank lastname", mutate: func(e *domain.Employee) { e.Lastname = "" }},
		{name: "blank empno", mutate: func(e *domain.Employee) { e.Empno = "" }},
		{name: "multi-character gender", mutate: func(e *domain.Employee) { e.Gender = "XY" }},
		{name: "missing hiredate", mutate: func(e *domain.Employee) { e.Hiredate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemEmployeeRepo()
			s := NewEmployeeService(repo, nil)

			e := validEmployee()
			tt.mutate(e)
			if err := s.Create(context.Background(), e); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if repo.createCalls != 0 {
				t.Fatalf("expected no store call on validation failure, got %d", repo.createCalls)
			}
		})
	}
}

func TestCreateEmployee(t *testing.T) {
	repo := newMemEmployeeRepo()
	s := NewEmployeeService(repo, nil)

	if err := s.Create(context.Background(), validEmployee()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.Get(context.Background(), "00065"); err != nil {
		t.Fatalf("expected employee retrievable after create: %v", err)
	}

	// Duplicate empno surfaces the store conflict
	if err := s.Create(context.Background(), validEmployee()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteEmployeeRemovesHistory(t *testing.T) {
	repo := newMemEmployeeRepo()
	repo.employees["00065"] = validEmployee()
	s := NewEmployeeService(repo, nil)

	if err := s.Delete(context.Background(), "00065"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected one cascading delete, got %d", repo.deleteCalls)
	}

	if err := s.Delete(context.Background(), "00065"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
