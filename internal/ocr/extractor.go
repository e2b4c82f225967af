package ocr

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// Extractor turns an uploaded document into raw text. Recognition failures
// degrade to empty text, they never fail the caller.
type Extractor struct {
	engine Engine
}

// NewExtractor constructs an extractor around a recognition engine.
func NewExtractor(engine Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract reads the document and returns its text. PDFs with a text layer
// are read directly; everything else goes through the recognition engine.
// Returns the empty string on any failure.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, fileName string) string {
	data, err := io.ReadAll(r)
	if err != nil {
		telemetry.Warn("ocr.read_failed", map[string]any{"file": fileName, "error": err.Error()})
		return ""
	}

	if isPDF(data, fileName) {
		if text := pdfTextLayer(data); strings.TrimSpace(text) != "" {
			return text
		}
		// Scanned PDF with no text layer, fall through to recognition.
	}

	lines, err := e.engine.ReadText(ctx, bytes.NewReader(data), fileName)
	if err != nil {
		telemetry.Warn("ocr.engine_failed", map[string]any{"file": fileName, "error": err.Error()})
		return ""
	}

	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return strings.Join(texts, "\n")
}

func isPDF(data []byte, fileName string) bool {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return true
	}
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

func pdfTextLayer(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return ""
	}
	return buf.String()
}
