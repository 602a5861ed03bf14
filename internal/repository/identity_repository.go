package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresIdentityRepository implements domain.IdentityRepository using PostgreSQL
type PostgresIdentityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresIdentityRepository creates a new identity repository
func NewPostgresIdentityRepository(db *sql.DB, logger *slog.Logger) *PostgresIdentityRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIdentityRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account
func (r *PostgresIdentityRepository) Create(ctx context.Context, ident *domain.Identity) error {
	query := `
		INSERT INTO identities (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, ident.ID, ident.Email, ident.PasswordHash).
		Scan(&ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create identity",
			slog.String("email", ident.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create identity: %w", translate(err))
	}

	return nil
}

// GetByID retrieves an account by id
func (r *PostgresIdentityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.get(ctx, "id", id)
}

// GetByEmail retrieves an account by email
func (r *PostgresIdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.get(ctx, "email", email)
}

func (r *PostgresIdentityRepository) get(ctx context.Context, column, value string) (*domain.Identity, error) {
	ident := &domain.Identity{}

	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities
		WHERE %s = $1
	`, column)

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&ident.ID,
		&ident.Email,
		&ident.PasswordHash,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return ident, nil
}
