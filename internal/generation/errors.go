package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrEmptyBatch is returned when no task in the batch is eligible for scheduling.
	// It is a normal outcome, not a failure.
	ErrEmptyBatch = errors.New("no tasks available to schedule")

	// ErrGenerationFailed is returned when the generation call fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate schedule")

	// ErrInvalidResponse is returned when the service returns no usable text
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the service blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during schedule generation")

	// ErrInvalidConfig is returned when the generator or builder configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
