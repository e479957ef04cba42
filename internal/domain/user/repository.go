package user

import (
	"context"
)

// UserRepository defines the persistence contract for user aggregates.
type UserRepository interface {
	// FindByEmail retrieves a user by normalized email, optionally loading the interest set.
	FindByEmail(ctx context.Context, email string, withInterests bool) (*User, error)

	// FindByID retrieves a user by identifier, optionally loading the interest set.
	FindByID(ctx context.Context, id uint, withInterests bool) (*User, error)

	// FindAll retrieves every user.
	FindAll(ctx context.Context, withInterests bool) ([]*User, error)

	// Save persists a new user and its interest set, assigning its ID.
	Save(ctx context.Context, user *User) error

	// Update persists profile and interest-set changes with optimistic locking.
	Update(ctx context.Context, user *User) error

	// Delete removes the user and its interest rows.
	Delete(ctx context.Context, user *User) error
}
