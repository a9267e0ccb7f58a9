package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/aiplanner/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req generation.RequestPayload) (string, error)

	// Default response values
	Response string
	Err      error

	mu       sync.Mutex
	requests []generation.RequestPayload
}

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, req generation.RequestPayload) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Response, m.Err
}

// Requests returns the payloads passed to Generate so far.
func (m *MockGenerator) Requests() []generation.RequestPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.RequestPayload(nil), m.requests...)
}
