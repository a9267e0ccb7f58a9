package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when the request has no user message.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrRequestRejected is returned when the API refuses the request with a
	// client error such as a bad key or an unknown model.
	ErrRequestRejected = errors.New("request rejected by Gemini API")
)
