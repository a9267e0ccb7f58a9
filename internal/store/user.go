package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user, hashing the plaintext password.
	// Returns ErrUsernameExists or ErrCanvasHashIDExists on conflicts.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by login identifier.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByCanvasHashID retrieves a user by their course-service identifier.
	// Returns ErrUserNotFound if the user does not exist.
	GetByCanvasHashID(ctx context.Context, canvasHashID int64) (*domain.User, error)

	// List returns every user ordered by username. Password hashes are not loaded.
	List(ctx context.Context) ([]*domain.User, error)
}
