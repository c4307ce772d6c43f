package provider

import (
	"context"
	"fmt"
	"math/rand/v2"

	"taskHelper/internal/logger"

	"go.uber.org/zap"
)

// MockResponse is what the offline completer answers. It is not JSON, so
// it exercises the fallback path of the pipeline.
const MockResponse = "\nSummary: Mock summary\nSteps:\n1. Step 1\n2. Step 2\nRisks: None\nEstimate hours: 1\n"

// MockCompleter answers every prompt with MockResponse.
type MockCompleter struct{}

func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

func (MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	logger.Debug("Provider: mock completion", zap.Int("prompt_chars", len(prompt)))
	return MockResponse, nil
}

// Placeholder returns a seeded picsum.photos URL instead of generating an image.
type Placeholder struct {
	intN func(n int) int
}

func NewPlaceholder() *Placeholder {
	return &Placeholder{intN: rand.IntN}
}

func (p *Placeholder) Generate(_ context.Context, taskID int64, _ string) (string, error) {
	return fmt.Sprintf("https://picsum.photos/seed/%d-%d/512/512", taskID, p.intN(1000)), nil
}
