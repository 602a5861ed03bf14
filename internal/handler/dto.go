package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/pkg/format"
)

// dateLayout is the wire format for all date fields
const dateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate parses the request body into req and runs struct
// validation. The returned error is safe to show to the client.
func decodeAndValidate(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func parseDatePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseDate(s)
	return &t
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// EmployeePayload is the wire form of an employee record
type EmployeePayload struct {
	Empno     string `json:"empno" validate:"required,max=10"`
	Firstname string `json:"firstname" validate:"required,max=50"`
	Lastname  string `json:"lastname" validate:"required,max=50"`
	Gender    string `json:"gender" validate:"omitempty,len=1"`
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Hiredate  string `json:"hiredate" validate:"required,datetime=2006-01-02"`
	Sepdate   string `json:"sepdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (p *EmployeePayload) toDomain() *domain.Employee {
	return &domain.Employee{
		Empno:     p.Empno,
		Firstname: p.Firstname,
		Lastname:  p.Lastname,
		Gender:    p.Gender,
		Birthdate: parseDate(p.Birthdate),
		Hiredate:  parseDate(p.Hiredate),
		Sepdate:   parseDatePtr(p.Sepdate),
	}
}

func employeePayloadFrom(e *domain.Employee) EmployeePayload {
	return EmployeePayload{
		Empno:     e.Empno,
		Firstname: e.Firstname,
		Lastname:  e.Lastname,
		Gender:    e.Gender,
		Birthdate: e.Birthdate.Format(dateLayout),
		Hiredate:  e.Hiredate.Format(dateLayout),
		Sepdate:   formatDatePtr(e.Sepdate),
	}
}

// DepartmentPayload is the wire form of a department
type DepartmentPayload struct {
	Deptcode string `json:"deptcode" validate:"required,max=20"`
	Deptname string `json:"deptname" validate:"max=100"`
}

// JobPayload is the wire form of a job
type JobPayload struct {
	Jobcode string `json:"jobcode" validate:"required,max=20"`
	Jobdesc string `json:"jobdesc" validate:"required,max=100"`
}

// HistoryKeyPayload identifies one job history row by its composite key
type HistoryKeyPayload struct {
	Empno   string `json:"empno" validate:"required"`
	Effdate string `json:"effdate" validate:"required,datetime=2006-01-02"`
	Jobcode string `json:"jobcode" validate:"required"`
}

func (p *HistoryKeyPayload) toKey() domain.JobHistoryKey {
	return domain.JobHistoryKey{
		Empno:   p.Empno,
		Effdate: parseDate(p.Effdate),
		Jobcode: p.Jobcode,
	}
}

// HistoryRowPayload is the wire form of a job history row
type HistoryRowPayload struct {
	Empno    string   `json:"empno" validate:"required"`
	Effdate  string   `json:"effdate" validate:"required,datetime=2006-01-02"`
	Jobcode  string   `json:"jobcode" validate:"required"`
	Deptcode *string  `json:"deptcode,omitempty"`
	Salary   *float64 `json:"salary,omitempty" validate:"omitempty,gte=0"`
}

func (p *HistoryRowPayload) toDomain() *domain.JobHistory {
	return &domain.JobHistory{
		JobHistoryKey: domain.JobHistoryKey{
			Empno:   p.Empno,
			Effdate: parseDate(p.Effdate),
			Jobcode: p.Jobcode,
		},
		Deptcode: p.Deptcode,
		Salary:   p.Salary,
	}
}

// HistoryRowResponse is a joined history row as returned by list endpoints.
// Salary carries the raw value; SalaryDisplay is the formatted string shown
// in views, "N/A" when no salary is on record.
type HistoryRowResponse struct {
	Empno         string   `json:"empno"`
	Effdate       string   `json:"effdate"`
	Jobcode       string   `json:"jobcode"`
	Deptcode      *string  `json:"deptcode"`
	Salary        *float64 `json:"salary"`
	SalaryDisplay string   `json:"salary_display"`
	JobDesc       string   `json:"jobdesc"`
	DeptName      string   `json:"deptname"`
	EmployeeName  string   `json:"employee_name"`
	Separated     bool     `json:"separated"`
}

func historyRowsResponse(rows []*domain.JoinedJobHistoryRow) []HistoryRowResponse {
	out := make([]HistoryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryRowResponse{
			Empno:         row.Empno,
			Effdate:       row.Effdate.Format(dateLayout),
			Jobcode:       row.Jobcode,
			Deptcode:      row.Deptcode,
			Salary:        row.Salary,
			SalaryDisplay: format.Salary(row.Salary),
			JobDesc:       row.JobDesc,
			DeptName:      row.DeptName,
			EmployeeName:  row.EmployeeName,
			Separated:     row.Separated,
		})
	}
	return out
}
