package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/hradmin/internal/security/audit"
	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/service"
)

// NextEmpnoResponse carries the proposed employee number for a create form
type NextEmpnoResponse struct {
	Empno string `json:"empno"`
}

// EmployeesHandler handles employee record endpoints
type EmployeesHandler struct {
	employeeService *service.EmployeeService
	historyService  *service.JobHistoryService
	audit           *audit.Logger
	logger          *slog.Logger
}

// NewEmployeesHandler creates a new employees handler
func NewEmployeesHandler(
	employeeService *service.EmployeeService,
	historyService *service.JobHistoryService,
	auditLogger *audit.Logger,
	logger *slog.Logger,
) *EmployeesHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &EmployeesHandler{
		employeeService: employeeService,
		historyService:  historyService,
		audit:           auditLogger,
		logger:          logger,
	}
}

// List handles GET /api/employees?q=smith
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	out := make([]EmployeePayload, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeePayloadFrom(e))
	}

	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/employees/{empno}
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.employeeService.Get(r.Context(), r.PathValue("empno"))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, employeePayloadFrom(e))
}

// NextEmpno handles GET /api/employees/next-empno. The proposal is advisory:
// the client may submit any unused number.
func (h *EmployeesHandler) NextEmpno(w http.ResponseWriter, r *http.Request) {
	empno, err := h.employeeService.ProposeNextEmpno(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, NextEmpnoResponse{Empno: empno})
}

// Create handles POST /api/employees
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeePayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	e := req.toDomain()
	if err := h.employeeService.Create(r.Context(), e); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, employeePayloadFrom(e))
}

// Update handles PUT /api/employees/{empno}. The employee number in the path
// wins: the body cannot move a record to a different number.
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req EmployeePayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	e := req.toDomain()
	e.Empno = r.PathValue("empno")
	if err := h.employeeService.Update(r.Context(), e); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, employeePayloadFrom(e))
}

// Delete handles DELETE /api/employees/{empno}. The employee's job history
// rows go with it.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	empno := r.PathValue("empno")

	if err := h.employeeService.Delete(r.Context(), empno); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if h.audit != nil {
		userID := ""
		if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
			userID = claims.UserID
		}
		h.audit.LogDelete(r.Context(), userID, "employee", empno, "ok")
	}

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/employees/{empno}/history
func (h *EmployeesHandler) History(w http.ResponseWriter, r *http.Request) {
	rows, err := h.historyService.ListByEmployee(r.Context(), r.PathValue("empno"))
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyRowsResponse(rows))
}
