package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooLong     = errors.New("username must be at most 255 characters long")
	ErrInvalidCanvasHashID = errors.New("canvas hash ID must be positive")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
)

// User represents a registered planner user. CanvasHashID is the identifier
// the course-management service knows the user by and is unique across users,
// whether their tasks were entered by hand or imported.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	CanvasHashID   int64     `json:"canvas_hash_id"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID and creation timestamps.
// The caller is responsible for hashing the password before the user is stored.
func NewUser(username, password string, canvasHashID int64) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		CanvasHashID: canvasHashID,
		Password:     password,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if len(u.Username) > 255 {
		return ErrUsernameTooLong
	}

	if u.CanvasHashID <= 0 {
		return ErrInvalidCanvasHashID
	}

	if u.Password != "" {
		// bcrypt ignores everything past 72 bytes
		switch n := len(u.Password); {
		case n < 12:
			return ErrPasswordTooShort
		case n > 72:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Stored users only carry the hash
		return ErrEmptyPassword
	}

	return nil
}
