package ai

import (
	"context"
	"time"
)

// MockExtractor is an IntentExtractor for testing. It returns a canned
// output or a configured error and records the inputs it was called with.
type MockExtractor struct {
	Output string
	Err    error

	// Inputs records every user message passed to Extract.
	Inputs []string
	// Nows records the reference time of every call.
	Nows []time.Time
}

// NewMockExtractor creates a mock returning output.
func NewMockExtractor(output string) *MockExtractor {
	return &MockExtractor{Output: output}
}

// Extract returns the canned output.
func (m *MockExtractor) Extract(_ context.Context, input string, now time.Time) (string, error) {
	m.Inputs = append(m.Inputs, input)
	m.Nows = append(m.Nows, now)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Output, nil
}
