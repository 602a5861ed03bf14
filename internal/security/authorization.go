package security

import (
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermViewRecords     Permission = "view_records"
	PermManageEmployees Permission = "manage_employees"
	PermManageJobs      Permission = "manage_jobs"
	PermManageDepts     Permission = "manage_departments"
	PermManageHistory   Permission = "manage_history"
	PermManageUsers     Permission = "manage_users"
)

// RolePermissions maps roles to their permissions. Blocked accounts hold no
// permissions at all; user accounts manage records but never other users.
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermViewRecords,
		PermManageEmployees,
		PermManageJobs,
		PermManageDepts,
		PermManageHistory,
		PermManageUsers,
	},
	domain.RoleUser: {
		PermViewRecords,
		PermManageEmployees,
		PermManageJobs,
		PermManageDepts,
		PermManageHistory,
	},
	domain.RoleBlocked: {},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("%w: %s role cannot %s", domain.ErrForbidden, role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	return RolePermissions[role]
}
