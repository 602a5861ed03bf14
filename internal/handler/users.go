package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/security/audit"
	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/service"
)

// UserResponse is one authorization record in the admin user list
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetRoleRequest carries a role reassignment
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user blocked"`
}

// UsersHandler handles the admin-only user management endpoints
type UsersHandler struct {
	roleService *service.RoleService
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(roleService *service.RoleService, auditLogger *audit.Logger, logger *slog.Logger) *UsersHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &UsersHandler{
		roleService: roleService,
		audit:       auditLogger,
		logger:      logger,
	}
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.GetRoleFromContext(r.Context())

	profiles, err := h.roleService.List(r.Context(), role)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	out := make([]UserResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, UserResponse{
			ID:        p.ID,
			Email:     p.Email,
			Role:      string(p.Role),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// SetRole handles PUT /api/users/{id}/role
func (h *UsersHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")
	if targetID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var req SetRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	claims := middleware.GetClaimsFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if err := h.roleService.Reassign(r.Context(), role, actorID, targetID, domain.Role(req.Role)); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	if h.audit != nil {
		h.audit.LogRoleChange(r.Context(), actorID, targetID, req.Role)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":   targetID,
		"role": req.Role,
	})
}
