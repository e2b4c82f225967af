package invoices

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
)

func newUploadRouter(t *testing.T, identity auth.Identity, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("identity", identity)
		c.Set("accessToken", "tok")
		c.Set("userId", identity.UserID)
		c.Next()
	})
	NewHandler(svc).Register(r)
	return r
}

func multipartUpload(t *testing.T, fieldName, fileName string, extraFields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("image bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for k, v := range extraFields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadEndToEnd(t *testing.T) {
	store := newMemStore()
	forwarder := &stubForwarder{}
	svc := NewService(store, &stubOCR{text: "TOTAL 10.00"}, &stubParser{record: map[string]any{"document_type": "receipt"}}, forwarder)
	r := newUploadRouter(t, auth.Identity{Username: "nick", UserID: "7"}, svc)

	body, contentType := multipartUpload(t, "receipt", "r.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp["status"] != "success" {
		t.Fatalf("expected success, got %v", resp)
	}
	if resp["file_path"] == "" {
		t.Fatalf("expected file_path in response")
	}
	if len(forwarder.payloads) != 1 || forwarder.payloads[0]["user_id"] != "7" {
		t.Fatalf("expected document forwarded with matching user id, got %v", forwarder.payloads)
	}
}

func TestUploadAcceptsLegacyFileField(t *testing.T) {
	svc := NewService(newMemStore(), &stubOCR{text: "t"}, &stubParser{record: map[string]any{}}, &stubForwarder{})
	r := newUploadRouter(t, auth.Identity{UserID: "7"}, svc)

	body, contentType := multipartUpload(t, "file", "r.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for legacy field name, got %d", w.Code)
	}
}

func TestUploadMissingFileField(t *testing.T) {
	svc := NewService(newMemStore(), &stubOCR{}, &stubParser{record: map[string]any{}}, &stubForwarder{})
	r := newUploadRouter(t, auth.Identity{UserID: "7"}, svc)

	body, contentType := multipartUpload(t, "wrong", "r.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] == "" {
		t.Fatalf("expected detail body, got %s", w.Body.String())
	}
}

func TestUploadFormUserIDFallback(t *testing.T) {
	forwarder := &stubForwarder{}
	svc := NewService(newMemStore(), &stubOCR{text: "t"}, &stubParser{record: map[string]any{}}, forwarder)
	r := newUploadRouter(t, auth.Identity{Username: "nick"}, svc)

	body, contentType := multipartUpload(t, "receipt", "r.jpg", map[string]string{"user_id": "42"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if len(forwarder.payloads) != 1 || forwarder.payloads[0]["user_id"] != "42" {
		t.Fatalf("expected form user_id used, got %v", forwarder.payloads)
	}
}

func TestUploadNoUserIDAnywhere(t *testing.T) {
	svc := NewService(newMemStore(), &stubOCR{}, &stubParser{record: map[string]any{}}, &stubForwarder{})
	r := newUploadRouter(t, auth.Identity{Username: "nick"}, svc)

	body, contentType := multipartUpload(t, "receipt", "r.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUploadPipelineFailureReturns500Detail(t *testing.T) {
	forwarder := &stubForwarder{err: errors.New("backend rejected document: status 400")}
	svc := NewService(newMemStore(), &stubOCR{text: "t"}, &stubParser{record: map[string]any{}}, forwarder)
	r := newUploadRouter(t, auth.Identity{UserID: "7"}, svc)

	body, contentType := multipartUpload(t, "receipt", "r.jpg", nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] == "" {
		t.Fatalf("expected detail body, got %s", w.Body.String())
	}
}
