package parse

import (
	"context"
	"encoding/json"

	"github.com/Nick-Maximillien/autobooks-ai/internal/llm"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// Extractor turns raw document text into a structured record via a language
// model. Extraction never fails outright: when the model output cannot be
// parsed, the record degrades to the raw text with document_type "unknown".
type Extractor struct {
	provider llm.Provider
}

// NewExtractor constructs an extractor around a model provider. Wrap the
// provider with llm.WithFallback to get the secondary-model retry.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// ExtractFields prompts the model with the document text and parses the
// first JSON object out of its reply.
func (e *Extractor) ExtractFields(ctx context.Context, text string) map[string]any {
	prompt := BuildExtractionPrompt(text)

	out, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		telemetry.Warn("parse.generate_failed", map[string]any{
			"provider": e.provider.Name(),
			"error":    err.Error(),
		})
		return fallbackRecord(text)
	}

	obj, found := llm.FirstJSONObject(out)
	if !found {
		telemetry.Warn("parse.no_json_object", map[string]any{"provider": e.provider.Name()})
		return fallbackRecord(out)
	}

	record := map[string]any{}
	if err := json.Unmarshal([]byte(obj), &record); err != nil {
		telemetry.Warn("parse.json_decode_failed", map[string]any{
			"provider": e.provider.Name(),
			"error":    err.Error(),
		})
		return fallbackRecord(out)
	}

	normalizeDocumentType(record)
	telemetry.Info("parse.extracted", map[string]any{
		"provider":      e.provider.Name(),
		"document_type": record["document_type"],
		"fields":        len(record),
	})
	return record
}

func fallbackRecord(rawText string) map[string]any {
	return map[string]any{
		"raw_text":      rawText,
		"document_type": "unknown",
	}
}
