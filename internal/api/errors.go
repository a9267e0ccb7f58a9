package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/generation"
	"github.com/phrazzld/aiplanner/internal/platform/canvas"
	"github.com/phrazzld/aiplanner/internal/service"
	"github.com/phrazzld/aiplanner/internal/service/auth"
	"github.com/phrazzld/aiplanner/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream errors
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, canvas.ErrRequestFailed),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrInvalidToken):
		return service.MsgInvalidToken

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrCanvasHashIDExists):
		return "Canvas account is already linked to another user"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return validationMessage(err)

	case errors.Is(err, canvas.ErrRequestFailed):
		var reqErr *canvas.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return "Canvas rejected the access token. Please check it and try again."
		}
		return "Could not reach Canvas. Please try again later."

	case errors.Is(err, generation.ErrContentBlocked):
		return "The schedule request was blocked by the language model"

	case errors.Is(err, generation.ErrTransientFailure):
		return "The scheduling service is temporarily unavailable. Please try again."

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Failed to generate a schedule"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage exposes the message of a known domain validation error
// and hides everything else.
func validationMessage(err error) string {
	for _, known := range []error{
		domain.ErrEmptyTaskName, domain.ErrTaskNameTooLong, domain.ErrEmptyDueDate,
		domain.ErrInvalidPriority, domain.ErrNegativeRecurrence,
		domain.ErrEmptyUsername, domain.ErrUsernameTooLong, domain.ErrInvalidCanvasHashID,
		domain.ErrPasswordTooShort, domain.ErrPasswordTooLong, domain.ErrEmptyPassword,
	} {
		if errors.Is(err, known) {
			return "Invalid request: " + known.Error()
		}
	}
	return "Invalid request data"
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte", "lt", "lte":
		return "out of range"
	case "datetime":
		return "expected YYYY-MM-DD"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error. userMessage overrides the derived message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string, messages ...string) {
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), userMessage, err, messages...)
}
