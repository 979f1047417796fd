package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a unique constraint on email or phone
	// is violated.
	ErrDuplicate = errors.New("duplicate user")
)

// UserRepository persists users and their role-specific profiles.
type UserRepository interface {
	// Create inserts the user and its profile row in one transaction.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	// UpdateProfile writes the mutable account fields and, when present,
	// the role-specific profile fields.
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// UpdateRefreshToken overwrites the single refresh token slot.
	// A nil token clears the slot.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
}
