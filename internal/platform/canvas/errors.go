package canvas

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is wrapped by every transport failure and non-2xx response.
var ErrRequestFailed = errors.New("course service request failed")

// RequestError describes a non-2xx response from the course service.
type RequestError struct {
	StatusCode int
	URL        string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrRequestFailed, e.URL, e.StatusCode)
}

// Unwrap lets errors.Is match ErrRequestFailed.
func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}
