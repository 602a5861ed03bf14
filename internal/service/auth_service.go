package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/notify"
	"github.com/yourorg/hradmin/internal/security/auth"
)

// AuthService handles sign-up, sign-in, and sign-out
type AuthService struct {
	identities domain.IdentityRepository
	profiles   domain.ProfileRepository
	tokens     *auth.TokenManager
	revocation *auth.RevocationStore
	hub        *notify.Hub
	tokenTTL   time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	identities domain.IdentityRepository,
	profiles domain.ProfileRepository,
	tokens *auth.TokenManager,
	revocation *auth.RevocationStore,
	hub *notify.Hub,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}

	return &AuthService{
		identities: identities,
		profiles:   profiles,
		tokens:     tokens,
		revocation: revocation,
		hub:        hub,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// SignUpResult represents a successful registration
type SignUpResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// SignInResult represents a successful sign-in
type SignInResult struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	TokenType string `json:"token_type"`
}

// SignUp creates a new account. The matching profile is provisioned
// immediately with the blocked role, so a fresh account has well-defined,
// maximally restrictive permissions until an administrator unblocks it.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to sign up")
	}

	ident := &domain.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.identities.Create(ctx, ident); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		s.logger.Error("failed to create identity", slog.String("error", err.Error()))
		return nil, errors.New("failed to sign up")
	}

	profile := &domain.Profile{
		ID:    ident.ID,
		Email: ident.Email,
		Role:  domain.RoleBlocked,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// The role resolver re-provisions on first access; sign-up still
		// succeeds with the account unresolved.
		s.logger.Error("failed to provision profile at sign-up",
			slog.String("user_id", ident.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.tokens.GenerateToken(ident.ID, ident.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to sign up")
	}

	return &SignUpResult{
		UserID: ident.ID,
		Email:  ident.Email,
		Token:  token,
	}, nil
}

// SignIn authenticates an account and returns an access token
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	ident, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Info("sign-in attempt with unknown email", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("sign-in failed with wrong password", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	token, err := s.tokens.GenerateToken(ident.ID, ident.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to sign in")
	}

	s.logger.Info("user signed in",
		slog.String("user_id", ident.ID),
		slog.String("email", ident.Email),
	)
	if s.hub != nil {
		s.hub.Publish(notify.Event{Type: notify.EventSignedIn, UserID: ident.ID})
	}

	return &SignInResult{
		UserID:    ident.ID,
		Email:     ident.Email,
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// SignOut revokes the presented token until its natural expiry
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if s.revocation != nil {
		if err := s.revocation.Revoke(ctx, claims); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}

	s.logger.Info("user signed out", slog.String("user_id", claims.UserID))
	if s.hub != nil {
		s.hub.Publish(notify.Event{Type: notify.EventSignedOut, UserID: claims.UserID})
	}

	return nil
}
