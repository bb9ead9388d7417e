package mock

import (
	"context"
	"sync"
)

// DefaultMockAnswer is what the mock generator returns when no custom
// behavior is injected.
const DefaultMockAnswer = "mock answer"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields and records the
// last prompt it was invoked with.
type MockGenerator struct {
	// GenerateFunc is called by GenerateAnswer if set.
	// If nil, returns DefaultMockAnswer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu         sync.Mutex
	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer records the prompt and returns the injected or canned answer.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return DefaultMockAnswer, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the prompt from the most recent call.
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// Reset clears the call count, captured prompt and injected behavior.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastPrompt = ""
	m.GenerateFunc = nil
}
