package service

import (
	"context"
	"strings"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
)

type memProfileRepo struct {
	profiles    map[string]*domain.Profile
	createCalls int
	updateCalls int
	getErr      error
	createErr   error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (m *memProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.profiles[p.ID]; ok {
		return domain.ErrConflict
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.profiles[p.ID] = p
	return nil
}

func (m *memProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memProfileRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	m.updateCalls++
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memProfileRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	out := []*domain.Profile{}
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

type memIdentityRepo struct {
	byID    map[string]*domain.Identity
	byEmail map[string]*domain.Identity
}

func newMemIdentityRepo() *memIdentityRepo {
	return &memIdentityRepo{byID: map[string]*domain.Identity{}, byEmail: map[string]*domain.Identity{}}
}

func (m *memIdentityRepo) Create(ctx context.Context, ident *domain.Identity) error {
	if _, ok := m.byEmail[ident.Email]; ok {
		return domain.ErrConflict
	}
	ident.CreatedAt = time.Now()
	ident.UpdatedAt = ident.CreatedAt
	m.byID[ident.ID] = ident
	m.byEmail[ident.Email] = ident
	return nil
}

func (m *memIdentityRepo) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	if ident, ok := m.byID[id]; ok {
		return ident, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if ident, ok := m.byEmail[email]; ok {
		return ident, nil
	}
	return nil, domain.ErrNotFound
}

type memEmployeeRepo struct {
	employees   map[string]*domain.Employee
	maxEmpno    string
	maxErr      error
	createCalls int
	deleteCalls int
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: map[string]*domain.Employee{}}
}

func (m *memEmployeeRepo) List(ctx context.Context, query string) ([]*domain.Employee, error) {
	out := []*domain.Employee{}
	for _, e := range m.employees {
		if query == "" || strings.Contains(strings.ToLower(e.Firstname+" "+e.Lastname+" "+e.Empno), query) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEmployeeRepo) Get(ctx context.Context, empno string) (*domain.Employee, error) {
	if e, ok := m.employees[empno]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	m.createCalls++
	if _, ok := m.employees[e.Empno]; ok {
		return domain.ErrConflict
	}
	m.employees[e.Empno] = e
	return nil
}

func (m *memEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	if _, ok := m.employees[e.Empno]; !ok {
		return domain.ErrNotFound
	}
	m.employees[e.Empno] = e
	return nil
}

func (m *memEmployeeRepo) DeleteWithHistory(ctx context.Context, empno string) error {
	m.deleteCalls++
	if _, ok := m.employees[empno]; !ok {
		return domain.ErrNotFound
	}
	delete(m.employees, empno)
	return nil
}

func (m *memEmployeeRepo) MaxEmpno(ctx context.Context) (string, error) {
	if m.maxErr != nil {
		return "", m.maxErr
	}
	return m.maxEmpno, nil
}

type historyKeyCall struct {
	old domain.JobHistoryKey
	row *domain.JobHistory
}

type memHistoryRepo struct {
	rows         []*domain.JoinedJobHistoryRow
	inserted     []*domain.JobHistory
	replaceCalls []historyKeyCall
	deleteCalls  []domain.JobHistoryKey
	deptCounts   map[string]int
	jobCounts    map[string]int
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{deptCounts: map[string]int{}, jobCounts: map[string]int{}}
}

func (m *memHistoryRepo) ListByEmployee(ctx context.Context, empno string) ([]*domain.JoinedJobHistoryRow, error) {
	out := []*domain.JoinedJobHistoryRow{}
	for _, r := range m.rows {
		if r.Empno == empno {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memHistoryRepo) ListByDepartment(ctx context.Context, deptcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return m.rows, nil
}

func (m *memHistoryRepo) ListByJob(ctx context.Context, jobcode string) ([]*domain.JoinedJobHistoryRow, error) {
	return m.rows, nil
}

func (m *memHistoryRepo) Insert(ctx context.Context, row *domain.JobHistory) error {
	m.inserted = append(m.inserted, row)
	return nil
}

func (m *memHistoryRepo) Replace(ctx context.Context, old domain.JobHistoryKey, row *domain.JobHistory) error {
	m.replaceCalls = append(m.replaceCalls, historyKeyCall{old: old, row: row})
	return nil
}

func (m *memHistoryRepo) Delete(ctx context.Context, key domain.JobHistoryKey) error {
	m.deleteCalls = append(m.deleteCalls, key)
	return nil
}

func (m *memHistoryRepo) CountByDepartment(ctx context.Context, deptcode string) (int, error) {
	return m.deptCounts[deptcode], nil
}

func (m *memHistoryRepo) CountByJob(ctx context.Context, jobcode string) (int, error) {
	return m.jobCounts[jobcode], nil
}

type memDepartmentRepo struct {
	departments map[string]*domain.Department
	deleteCalls int
}

func newMemDepartmentRepo() *memDepartmentRepo {
	return &memDepartmentRepo{departments: map[string]*domain.Department{}}
}

func (m *memDepartmentRepo) List(ctx context.Context) ([]*domain.Department, error) {
	out := []*domain.Department{}
	for _, d := range m.departments {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDepartmentRepo) Get(ctx context.Context, deptcode string) (*domain.Department, error) {
	if d, ok := m.departments[deptcode]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memDepartmentRepo) Create(ctx context.Context, d *domain.Department) error {
	if _, ok := m.departments[d.Deptcode]; ok {
		return domain.ErrConflict
	}
	m.departments[d.Deptcode] = d
	return nil
}

func (m *memDepartmentRepo) Update(ctx context.Context, d *domain.Department) error {
	if _, ok := m.departments[d.Deptcode]; !ok {
		return domain.ErrNotFound
	}
	m.departments[d.Deptcode] = d
	return nil
}

func (m *memDepartmentRepo) Delete(ctx context.Context, deptcode string) error {
	m.deleteCalls++
	if _, ok := m.departments[deptcode]; !ok {
		return domain.ErrNotFound
	}
	delete(m.departments, deptcode)
	return nil
}

type memJobRepo struct {
	jobs        map[string]*domain.Job
	deleteCalls int
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: map[string]*domain.Job{}}
}

func (m *memJobRepo) List(ctx context.Context) ([]*domain.Job, error) {
	out := []*domain.Job{}
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (m *memJobRepo) Get(ctx context.Context, jobcode string) (*domain.Job, error) {
	if j, ok := m.jobs[jobcode]; ok {
		return j, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memJobRepo) Create(ctx context.Context, j *domain.Job) error {
	if _, ok := m.jobs[j.Jobcode]; ok {
		return domain.ErrConflict
	}
	m.jobs[j.Jobcode] = j
	return nil
}

func (m *memJobRepo) Update(ctx context.Context, j *domain.Job) error {
	if _, ok := m.jobs[j.Jobcode]; !ok {
		return domain.ErrNotFound
	}
	m.jobs[j.Jobcode] = j
	return nil
}

func (m *memJobRepo) Delete(ctx context.Context, jobcode string) error {
	m.deleteCalls++
	if _, ok := m.jobs[jobcode]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, jobcode)
	return nil
}
