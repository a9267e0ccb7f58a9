package generation

import "context"

// Generator is the boundary to the external text-generation service.
type Generator interface {
	// Generate sends the request's system instruction and user message and
	// returns the raw text of the reply. Failures wrap ErrGenerationFailed,
	// ErrTransientFailure, ErrContentBlocked or ErrInvalidResponse.
	Generate(ctx context.Context, req RequestPayload) (string, error)
}
