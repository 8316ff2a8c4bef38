// Package llm implements the external validation collaborator: a generative
// AI service shown the cropped detection and asked to confirm or correct the
// candidate price category. Validation is advisory; every failure here must
// be recoverable by falling back to the detector's own category.
package llm

import (
	"context"
	"errors"
)

// ErrRemote marks failures of the external validation service: timeouts,
// API errors and malformed payloads all wrap it.
var ErrRemote = errors.New("validation service failed")

// Result is the collaborator's verdict on one detection.
type Result struct {
	// Approved is true when the candidate category was confirmed.
	Approved bool
	// CorrectedCategory is set when the collaborator suggests a different
	// category from the price taxonomy. Empty when Approved or when the
	// suggestion was unusable.
	CorrectedCategory string
	// Rationale is the collaborator's explanation, kept for the response.
	Rationale string
}

// Usage contains token usage and cost information for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// Validator is the external collaborator contract.
type Validator interface {
	// Validate checks a cropped detection image against the candidate
	// category produced by the mapper.
	Validate(ctx context.Context, crop []byte, label, candidate string) (*Result, error)
	// AssessCondition estimates physical damage on a 1-5 scale
	// (1 = excellent, 5 = severe) from the cropped image.
	AssessCondition(ctx context.Context, crop []byte, category string) (int, string, error)
}
