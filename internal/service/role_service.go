package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/notify"
	"github.com/yourorg/hradmin/internal/observability/metrics"
	"github.com/yourorg/hradmin/internal/security"
)

// RoleInfo is a resolved role plus its derived capability flags. The zero
// value is the unresolved state: no role, every flag false.
type RoleInfo struct {
	Role      domain.Role
	IsAdmin   bool
	IsUser    bool
	IsBlocked bool
}

// NewRoleInfo derives capability flags from a role
func NewRoleInfo(role domain.Role) RoleInfo {
	return RoleInfo{
		Role:      role,
		IsAdmin:   role == domain.RoleAdmin,
		IsUser:    role == domain.RoleUser,
		IsBlocked: role == domain.RoleBlocked,
	}
}

// RoleService resolves authorization records for identities and handles
// role reassignment. Resolution is a pure function of store state, so
// re-resolution after a role change is just another Resolve call.
type RoleService struct {
	profiles domain.ProfileRepository
	authz    *security.AuthorizationService
	hub      *notify.Hub
	logger   *slog.Logger
}

// NewRoleService creates a new role service
func NewRoleService(profiles domain.ProfileRepository, hub *notify.Hub, logger *slog.Logger) *RoleService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RoleService{
		profiles: profiles,
		authz:    security.NewAuthorizationService(logger),
		hub:      hub,
		logger:   logger,
	}
}

// Resolve returns the stored role for an identity. An identity with no
// profile yet gets one provisioned with RoleBlocked: a new account has the
// most restrictive permissions until an administrator changes them.
func (s *RoleService) Resolve(ctx context.Context, userID, email string) (domain.Role, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err == nil {
		metrics.ObserveRoleResolution("resolved")
		return profile.Role, nil
	}

	if !errors.Is(err, domain.ErrNotFound) {
		metrics.ObserveRoleResolution("error")
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}

	created := &domain.Profile{
		ID:    userID,
		Email: email,
		Role:  domain.RoleBlocked,
	}
	if err := s.profiles.Create(ctx, created); err != nil {
		metrics.ObserveRoleResolution("provision_failed")
		return "", fmt.Errorf("failed to provision profile: %w", err)
	}

	s.logger.Info("provisioned profile with blocked role",
		slog.String("user_id", userID),
		slog.String("email", email),
	)
	metrics.ObserveRoleResolution("provisioned")
	if s.hub != nil {
		s.hub.Publish(notify.Event{
			Type:   notify.EventProfileProvisioned,
			UserID: userID,
			Role:   string(domain.RoleBlocked),
		})
	}

	return domain.RoleBlocked, nil
}

// ResolveInfo resolves the role and derives capability flags. On failure
// the zero RoleInfo is returned alongside the error: all flags false.
func (s *RoleService) ResolveInfo(ctx context.Context, userID, email string) (RoleInfo, error) {
	role, err := s.Resolve(ctx, userID, email)
	if err != nil {
		return RoleInfo{}, err
	}
	return NewRoleInfo(role), nil
}

// List returns all authorization records, newest first. Admin only.
func (s *RoleService) List(ctx context.Context, actor domain.Role) ([]*domain.Profile, error) {
	if err := s.authz.ValidatePermission(actor, security.PermManageUsers); err != nil {
		return nil, err
	}
	return s.profiles.List(ctx)
}

// Reassign changes the role on a profile. The actor's permission is checked
// before any store call; non-admins are rejected without touching the store.
func (s *RoleService) Reassign(ctx context.Context, actor domain.Role, actorID, targetID string, role domain.Role) error {
	if err := s.authz.ValidatePermission(actor, security.PermManageUsers); err != nil {
		s.logger.Warn("role reassignment denied",
			slog.String("actor_id", actorID),
			slog.String("actor_role", string(actor)),
		)
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if err := s.profiles.UpdateRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("failed to reassign role: %w", err)
	}

	s.logger.Info("role reassigned",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
	)
	if s.hub != nil {
		s.hub.Publish(notify.Event{
			Type:   notify.EventRoleChanged,
			UserID: targetID,
			Role:   string(role),
		})
	}

	return nil
}
