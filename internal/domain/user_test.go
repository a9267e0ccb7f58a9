package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  student@example.edu ", "correct-horse-battery", 850123456)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "student@example.edu", user.Username, "username should be trimmed")
	assert.Equal(t, int64(850123456), user.CanvasHashID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	valid := User{
		ID:             uuid.New(),
		Username:       "student",
		CanvasHashID:   42,
		HashedPassword: "$2a$10$hash",
	}

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr error
	}{
		{"valid stored user", func(u *User) {}, nil},
		{"nil id", func(u *User) { u.ID = uuid.Nil }, ErrEmptyUserID},
		{"empty username", func(u *User) { u.Username = "" }, ErrEmptyUsername},
		{"long username", func(u *User) { u.Username = strings.Repeat("a", 256) }, ErrUsernameTooLong},
		{"zero canvas id", func(u *User) { u.CanvasHashID = 0 }, ErrInvalidCanvasHashID},
		{"no credential", func(u *User) { u.HashedPassword = "" }, ErrEmptyPassword},
		{"short password", func(u *User) { u.Password = "short" }, ErrPasswordTooShort},
		{"long password", func(u *User) { u.Password = strings.Repeat("p", 73) }, ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mutate(&u)
			err := u.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
