package llm

import (
	"context"
	"strings"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/metrics"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// fallbackMaxPromptLen bounds the prompt sent to the secondary provider,
// which typically has a much smaller context window than the primary.
const fallbackMaxPromptLen = 12000

type fallbackProvider struct {
	primary   Provider
	secondary Provider
}

// WithFallback wraps two providers: the secondary is tried exactly once
// when the primary errors or returns blank output. Prompts are truncated
// for the secondary when very long.
func WithFallback(primary, secondary Provider) Provider {
	return &fallbackProvider{primary: primary, secondary: secondary}
}

func (f *fallbackProvider) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *fallbackProvider) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := f.primary.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}

	fields := map[string]any{"primary": f.primary.Name(), "secondary": f.secondary.Name()}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("llm.fallback", fields)
	metrics.IncLLMFallback()

	fallbackPrompt := prompt
	if len(fallbackPrompt) > fallbackMaxPromptLen {
		fallbackPrompt = fallbackPrompt[:fallbackMaxPromptLen]
	}
	return f.secondary.Generate(ctx, fallbackPrompt)
}
