package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/security/auth"
)

type ClaimsContextKey struct{}
type RoleContextKey struct{}

// RoleResolver resolves the stored role for an identity, provisioning a
// blocked profile when none exists yet.
type RoleResolver interface {
	Resolve(ctx context.Context, userID, email string) (domain.Role, error)
}

// TokenChecker reports whether a validated token has been revoked.
type TokenChecker interface {
	IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error)
}

// RequireAuth is the identity gate: requests without a valid, unrevoked
// token never reach protected handlers. Browser navigations are redirected
// to the sign-in page with the originally requested path preserved in
// return_to; API clients get 401 JSON.
func RequireAuth(tm *auth.TokenManager, revoked TokenChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				denyUnauthenticated(w, r)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				denyUnauthenticated(w, r)
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims)
				if err != nil {
					log.Error("revocation check failed", slog.String("error", err.Error()))
					// Fail closed: an unverifiable token is not accepted.
					denyUnauthenticated(w, r)
					return
				}
				if isRevoked {
					denyUnauthenticated(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccess is the access gate: it resolves the role for the
// authenticated identity before the protected handler runs, and turns
// blocked accounts and resolution failures into a restricted notice. It must
// sit inside RequireAuth; a role is meaningless without an identity.
func RequireAccess(resolver RoleResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				denyUnauthenticated(w, r)
				return
			}

			role, err := resolver.Resolve(r.Context(), claims.UserID, claims.Email)
			if err != nil {
				log.Error("role resolution failed",
					slog.String("user_id", claims.UserID),
					slog.String("error", err.Error()),
				)
				// Degrade to the most restrictive observable state.
				writeJSONError(w, http.StatusForbidden, "access restricted: contact an administrator")
				return
			}

			if role == domain.RoleBlocked {
				writeJSONError(w, http.StatusForbidden, "account blocked: contact an administrator")
				return
			}

			ctx := context.WithValue(r.Context(), RoleContextKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles admits only the listed roles. Other roles get the fallback
// handler, or 403 JSON when none is given. Unlike RequireAccess this is a
// per-route primitive for gating individual resources.
func RequireRoles(allowed []domain.Role, fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(RoleContextKey{}).(domain.Role)
			if ok {
				for _, a := range allowed {
					if role == a {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			if fallback != nil {
				fallback.ServeHTTP(w, r)
				return
			}
			writeJSONError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// GetClaimsFromContext returns the authenticated claims, or nil
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}

// GetRoleFromContext returns the resolved role and whether one is present
func GetRoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(RoleContextKey{}).(domain.Role)
	return role, ok
}

// bearerToken reads the access token from the Authorization header, falling
// back to the access_token query parameter for WebSocket clients that cannot
// set headers.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, err := auth.ExtractToken(h)
		if err == nil {
			return token
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		target := "/auth?return_to=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	writeJSONError(w, http.StatusUnauthorized, "authentication required")
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
