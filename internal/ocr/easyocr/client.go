package easyocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Nick-Maximillien/autobooks-ai/internal/ocr"
)

// Engine is an HTTP client for the OCR sidecar. The sidecar loads its
// detection and recognition networks once at start, so there is no
// per-request model cost here; recognition time is unbounded beyond the
// request context.
type Engine struct {
	url        string
	httpClient *http.Client
}

// New constructs a sidecar engine for the given base URL.
func New(url string) *Engine {
	return &Engine{
		url:        strings.TrimRight(strings.TrimSpace(url), "/"),
		httpClient: &http.Client{},
	}
}

type readTextResponse struct {
	Results []ocr.Line `json:"results"`
}

// ReadText sends the document to the sidecar and returns recognized lines
// in reading order.
func (e *Engine) ReadText(ctx context.Context, r io.Reader, fileName string) ([]ocr.Line, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/readtext", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ocr response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ocr sidecar: status %d", resp.StatusCode)
	}

	var parsed readTextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse ocr response: %w", err)
	}
	return parsed.Results, nil
}

var _ ocr.Engine = (*Engine)(nil)
