package domain

import (
	"context"
	"time"
)

// Role controls route access and which mutating operations are permitted.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleBlocked Role = "blocked"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleBlocked:
		return true
	}
	return false
}

// Profile is the authorization record for one identity. Exactly one exists
// per identity id once provisioned; accounts with no profile are provisioned
// with RoleBlocked on first role resolution.
type Profile struct {
	ID        string // identity UUID
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository defines data access for authorization records.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	List(ctx context.Context) ([]*Profile, error)
}

// Identity is an authenticated account as known to the credential store.
// Profiles reference identities by id; credentials never leave this layer.
type Identity struct {
	ID           string // UUID
	Email        string // unique
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdentityRepository defines data access for accounts.
type IdentityRepository interface {
	Create(ctx context.Context, ident *Identity) error
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
}
