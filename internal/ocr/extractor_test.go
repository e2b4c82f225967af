package ocr

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type stubEngine struct {
	lines []Line
	err   error
	calls int
}

func (s *stubEngine) ReadText(_ context.Context, r io.Reader, _ string) ([]Line, error) {
	s.calls++
	_, _ = io.ReadAll(r)
	return s.lines, s.err
}

func TestExtractJoinsRecognizedLines(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{lines: []Line{
		{Text: "NAIVAS SUPERMARKET", Confidence: 0.98},
		{Text: "TOTAL 1250.00", Confidence: 0.91},
	}}
	e := NewExtractor(engine)

	got := e.Extract(context.Background(), strings.NewReader("fake image bytes"), "receipt.jpg")
	if got != "NAIVAS SUPERMARKET\nTOTAL 1250.00" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractEngineFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	e := NewExtractor(&stubEngine{err: errors.New("sidecar down")})
	if got := e.Extract(context.Background(), strings.NewReader("bytes"), "receipt.png"); got != "" {
		t.Fatalf("expected empty text on engine failure, got %q", got)
	}
}

func TestExtractNoLinesReturnsEmpty(t *testing.T) {
	t.Parallel()

	e := NewExtractor(&stubEngine{})
	if got := e.Extract(context.Background(), strings.NewReader("bytes"), "blank.jpg"); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractScannedPDFFallsThroughToEngine(t *testing.T) {
	t.Parallel()

	// A PDF header with no readable text layer must still reach the engine.
	engine := &stubEngine{lines: []Line{{Text: "scanned line"}}}
	e := NewExtractor(engine)

	got := e.Extract(context.Background(), strings.NewReader("%PDF-1.4 not a real pdf"), "scan.pdf")
	if engine.calls != 1 {
		t.Fatalf("expected engine call for scanned pdf, got %d", engine.calls)
	}
	if got != "scanned line" {
		t.Fatalf("unexpected text %q", got)
	}
}
