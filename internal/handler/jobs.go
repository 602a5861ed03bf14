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

// JobsHandler handles the job reference table endpoints
type JobsHandler struct {
	directoryService *service.DirectoryService
	historyService   *service.JobHistoryService
	audit            *audit.Logger
	logger           *slog.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(
	directoryService *service.DirectoryService,
	historyService *service.JobHistoryService,
	auditLogger *audit.Logger,
	logger *slog.Logger,
) *JobsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobsHandler{
		directoryService: directoryService,
		historyService:   historyService,
		audit:            auditLogger,
		logger:           logger,
	}
}

// List handles GET /api/jobs
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.directoryService.ListJobs(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	out := make([]JobPayload, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobPayload{Jobcode: j.Jobcode, Jobdesc: j.Jobdesc})
	}

	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/jobs
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req JobPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	j := &domain.Job{Jobcode: req.Jobcode, Jobdesc: req.Jobdesc}
	if err := h.directoryService.CreateJob(r.Context(), j); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// Update handles PUT /api/jobs/{jobcode}
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req JobPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	j := &domain.Job{Jobcode: r.PathValue("jobcode"), Jobdesc: req.Jobdesc}
	if err := h.directoryService.UpdateJob(r.Context(), j); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, JobPayload{Jobcode: j.Jobcode, Jobdesc: j.Jobdesc})
}

// Delete handles DELETE /api/jobs/{jobcode}. A job still referenced by job
// history is left untouched and the request rejected.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobcode := r.PathValue("jobcode")

	if err := h.directoryService.DeleteJob(r.Context(), jobcode); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if h.audit != nil {
		userID := ""
		if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
			userID = claims.UserID
		}
		h.audit.LogDelete(r.Context(), userID, "job", jobcode, "ok")
	}

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/jobs/{jobcode}/history?policy=latest
func (h *JobsHandler) History(w http.ResponseWriter, r *http.Request) {
	policy := config.HistoryListPolicy(r.URL.Query().Get("policy"))
	rows, err := h.historyService.ListByJob(r.Context(), r.PathValue("jobcode"), policy)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyRowsResponse(rows))
}
