package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/security/audit"
	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/service"
	"github.com/yourorg/hradmin/pkg/config"
)

// DepartmentsHandler handles the department reference table endpoints
type DepartmentsHandler struct {
	directoryService *service.DirectoryService
	historyService   *service.JobHistoryService
	audit            *audit.Logger
	logger           *slog.Logger
}

// NewDepartmentsHandler creates a new departments handler
func NewDepartmentsHandler(
	directoryService *service.DirectoryService,
	historyService *service.JobHistoryService,
	auditLogger *audit.Logger,
	logger *slog.Logger,
) *DepartmentsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &DepartmentsHandler{
		directoryService: directoryService,
		historyService:   historyService,
		audit:            auditLogger,
		logger:           logger,
	}
}

// List handles GET /api/departments
func (h *DepartmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directoryService.ListDepartments(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	out := make([]DepartmentPayload, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentPayload{Deptcode: d.Deptcode, Deptname: d.Deptname})
	}

	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/departments
func (h *DepartmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DepartmentPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	d := &domain.Department{Deptcode: req.Deptcode, Deptname: req.Deptname}
	if err := h.directoryService.CreateDepartment(r.Context(), d); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// Update handles PUT /api/departments/{deptcode}
func (h *DepartmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req DepartmentPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	d := &domain.Department{Deptcode: r.PathValue("deptcode"), Deptname: req.Deptname}
	if err := h.directoryService.UpdateDepartment(r.Context(), d); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, DepartmentPayload{Deptcode: d.Deptcode, Deptname: d.Deptname})
}

// Delete handles DELETE /api/departments/{deptcode}. A department still
// referenced by job history is left untouched and the request rejected.
func (h *DepartmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deptcode := r.PathValue("deptcode")

	if err := h.directoryService.DeleteDepartment(r.Context(), deptcode); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if h.audit != nil {
		userID := ""
		if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
			userID = claims.UserID
		}
		h.audit.LogDelete(r.Context(), userID, "department", deptcode, "ok")
	}

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/departments/{deptcode}/history?policy=latest
func (h *DepartmentsHandler) History(w http.ResponseWriter, r *http.Request) {
	policy := config.HistoryListPolicy(r.URL.Query().Get("policy"))
	rows, err := h.historyService.ListByDepartment(r.Context(), r.PathValue("deptcode"), policy)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyRowsResponse(rows))
}
