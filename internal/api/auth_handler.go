package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/domain"
)

// UserService is the account boundary used by AuthHandler.
type UserService interface {
	Register(ctx context.Context, username, password string, canvasHashID int64) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users UserService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, req.CanvasHashID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{UserID: user.ID})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{UserID: user.ID, Token: token})
}
