package ocr

import (
	"context"
	"io"
)

// Line is one recognized text region: the detected bounding box corners,
// the recognized text, and the recognition confidence.
type Line struct {
	Box        [][2]float64 `json:"box"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
}

// Engine recognizes text in a document image or scanned PDF.
type Engine interface {
	ReadText(ctx context.Context, r io.Reader, fileName string) ([]Line, error)
}
