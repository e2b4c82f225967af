package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers with no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Provider generates a completion for a prompt. Implementations are
// process-wide singletons constructed at bootstrap.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
