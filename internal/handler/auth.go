package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/service"
)

// SignUpRequest represents registration credentials
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInRequest represents sign-in credentials
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MeResponse describes the authenticated session and its resolved role
type MeResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin"`
	IsUser    bool   `json:"is_user"`
	IsBlocked bool   `json:"is_blocked"`
}

// AuthHandler handles registration, sign-in, and sign-out
type AuthHandler struct {
	authService *service.AuthService
	roleService *service.RoleService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, roleService *service.RoleService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		roleService: roleService,
		logger:      logger,
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	result, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	result, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		// Generic message to prevent account enumeration
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SignOut handles POST /api/auth/signout. The presented token is revoked
// until its natural expiry.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authService.SignOut(r.Context(), claims); err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me handles GET /api/auth/me. It resolves the caller's role on every call,
// provisioning a blocked authorization record if none exists yet, so the
// response always reflects current store state.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	info, err := h.roleService.ResolveInfo(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		h.logger.Error("failed to resolve role",
			slog.String("user_id", claims.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusForbidden, "access restricted: contact an administrator")
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      string(info.Role),
		IsAdmin:   info.IsAdmin,
		IsUser:    info.IsUser,
		IsBlocked: info.IsBlocked,
	})
}
