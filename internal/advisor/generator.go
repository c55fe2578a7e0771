// Package advisor answers mentoring, skill and career questions with a
// language model.
package advisor

import "context"

// Generator produces a plaintext completion for a single prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Generation settings shared by every backend
const (
	temperature     = 1.0
	topP            = 0.95
	topK            = 64
	maxOutputTokens = 1024
)
