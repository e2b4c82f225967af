package invoices

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/ledger"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/metrics"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/storage/object"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// TextExtractor turns stored document bytes into raw text.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader, fileName string) string
}

// FieldExtractor turns raw text into a structured record.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) map[string]any
}

// Forwarder sends a structured document to the bookkeeping backend.
type Forwarder interface {
	SaveDocument(ctx context.Context, token string, payload map[string]any) (map[string]any, error)
}

// Result is the upload pipeline outcome returned to the client.
type Result struct {
	Status         string         `json:"status"`
	StructuredData map[string]any `json:"structured_data"`
	FilePath       string         `json:"file_path"`
	Identity       auth.Identity  `json:"identity"`
}

// Service runs the upload pipeline: store bytes, recognize text, extract
// fields, forward to the backend. Stages run strictly in order; the first
// fatal error aborts the pipeline.
type Service struct {
	store  object.ObjectStore
	ocr    TextExtractor
	parser FieldExtractor
	ledger Forwarder
}

// NewService wires the pipeline collaborators.
func NewService(store object.ObjectStore, ocr TextExtractor, parser FieldExtractor, forwarder Forwarder) *Service {
	return &Service{store: store, ocr: ocr, parser: parser, ledger: forwarder}
}

// Process ingests one uploaded document for the authenticated identity.
func (s *Service) Process(ctx context.Context, identity auth.Identity, token, fileName string, r io.Reader) (Result, error) {
	metrics.IncUploadStarted()
	started := time.Now()

	storageKey, size, mimeType, err := s.store.Save(ctx, identity.UserID, fileName, r)
	if err != nil {
		metrics.IncUploadFailed()
		return Result{}, fmt.Errorf("store upload: %w", err)
	}
	telemetry.Info("upload.stored", map[string]any{
		"user_id":   identity.UserID,
		"file":      fileName,
		"key":       storageKey,
		"size":      size,
		"mime_type": mimeType,
	})

	stored, err := s.store.Open(ctx, storageKey)
	if err != nil {
		metrics.IncUploadFailed()
		return Result{}, fmt.Errorf("open stored upload: %w", err)
	}
	text := s.ocr.Extract(ctx, stored, fileName)
	stored.Close()

	if strings.TrimSpace(text) == "" {
		telemetry.Warn("upload.ocr_empty", map[string]any{"user_id": identity.UserID, "key": storageKey})
	} else {
		telemetry.Info("upload.ocr_done", map[string]any{"user_id": identity.UserID, "chars": len(text)})
		s.saveTextArtifact(ctx, storageKey, text)
	}

	record := s.parser.ExtractFields(ctx, text)
	payload := ledger.BuildDocumentPayload(record, text, identity)

	if _, err := s.ledger.SaveDocument(ctx, token, payload); err != nil {
		metrics.IncUploadFailed()
		metrics.ObserveUploadDurationMs(float64(time.Since(started).Milliseconds()))
		return Result{}, fmt.Errorf("forward document: %w", err)
	}

	metrics.IncUploadForwarded()
	metrics.ObserveUploadDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("upload.forwarded", map[string]any{
		"user_id":       identity.UserID,
		"document_type": payload["document_type"],
		"key":           storageKey,
	})

	return Result{
		Status:         "success",
		StructuredData: record,
		FilePath:       storageKey,
		Identity:       identity,
	}, nil
}

// saveTextArtifact persists the recognized text next to the upload. Purely
// diagnostic, failures only warn.
func (s *Service) saveTextArtifact(ctx context.Context, storageKey, text string) {
	key := storageKey + ".ocr.txt"
	if _, err := s.store.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("upload.artifact_failed", map[string]any{"key": key, "error": err.Error()})
	}
}
