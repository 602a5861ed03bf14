package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/hradmin/internal/security/audit"
	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/service"
)

// ReplaceHistoryRequest rewrites one history row. Old identifies the row by
// its original composite key; Row carries the replacement values. Because
// the key participates in identity, the store deletes the old key and
// inserts the new row in one transaction.
type ReplaceHistoryRequest struct {
	Old HistoryKeyPayload `json:"old" validate:"required"`
	Row HistoryRowPayload `json:"row" validate:"required"`
}

// HistoryHandler handles job history row mutations
type HistoryHandler struct {
	historyService *service.JobHistoryService
	audit          *audit.Logger
	logger         *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.JobHistoryService, auditLogger *audit.Logger, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HistoryHandler{
		historyService: historyService,
		audit:          auditLogger,
		logger:         logger,
	}
}

// Create handles POST /api/history
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req HistoryRowPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	row := req.toDomain()
	if err := h.historyService.Create(r.Context(), row); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// Replace handles PUT /api/history
func (h *HistoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceHistoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	row := req.Row.toDomain()
	if err := h.historyService.Replace(r.Context(), req.Old.toKey(), row); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	// The service pins the replacement row to the original employee; echo
	// the row as stored, not as submitted.
	req.Row.Empno = row.Empno
	writeJSON(w, http.StatusOK, req.Row)
}

// Delete handles DELETE /api/history. The full composite key comes in the
// body since no single path segment identifies a row.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req HistoryKeyPayload
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if err := h.historyService.Delete(r.Context(), req.toKey()); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if h.audit != nil {
		userID := ""
		if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
			userID = claims.UserID
		}
		h.audit.LogDelete(r.Context(), userID, "jobhistory", req.Empno+"/"+req.Effdate+"/"+req.Jobcode, "ok")
	}

	w.WriteHeader(http.StatusNoContent)
}
