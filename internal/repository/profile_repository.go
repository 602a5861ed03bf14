package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/hradmin/internal/domain"
)

// PostgresProfileRepository implements domain.ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProfileRepository creates a new profile repository
func NewPostgresProfileRepository(db *sql.DB, logger *slog.Logger) *PostgresProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new authorization record
func (r *PostgresProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, email, role)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, string(p.Role)).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create profile",
			slog.String("id", p.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create profile: %w", translate(err))
	}

	return nil
}

// GetByID retrieves a profile by identity id. Absence is reported as
// domain.ErrNotFound so the resolver can distinguish it from a query failure.
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}

	query := `
		SELECT id, email, role, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var role string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to get profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Role = domain.Role(role)

	return p, nil
}

// UpdateRole reassigns the role on an existing profile
func (r *PostgresProfileRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	query := `
		UPDATE profiles
		SET role = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", translate(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// List returns all profiles, newest first
func (r *PostgresProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `
		SELECT id, email, role, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list profiles", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p := &domain.Profile{}
		var role string
		if err := rows.Scan(&p.ID, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.Role = domain.Role(role)
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
