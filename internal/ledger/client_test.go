package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, 2*time.Second)
}

func TestSaveDocumentPostsAndParsesConfirmation(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/documents/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	confirmation, err := c.SaveDocument(context.Background(), "tok-1", map[string]any{"document_type": "receipt"})
	if err != nil {
		t.Fatalf("save document: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotBody["document_type"] != "receipt" {
		t.Fatalf("expected payload forwarded, got %v", gotBody)
	}
	if confirmation["id"] != float64(42) {
		t.Fatalf("expected parsed confirmation, got %v", confirmation)
	}
}

func TestSaveDocumentRejectedStatusIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"total":["invalid decimal"]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.SaveDocument(context.Background(), "tok", map[string]any{}); err == nil {
		t.Fatalf("expected error on 400 response")
	}
}

func TestRefreshTokenExchangesRefreshForAccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/refresh/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "refresh-1" {
			t.Errorf("expected refresh token in body, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	access, err := c.RefreshToken(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access != "access-2" {
		t.Fatalf("expected access-2, got %q", access)
	}
}

func TestRefreshTokenNon2xxFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.RefreshToken(context.Background(), "stale"); err == nil {
		t.Fatalf("expected error on 401 refresh response")
	}
}

func TestReportFetchFailureIsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/balance-sheet/":
			_, _ = w.Write([]byte(`{"assets": 100}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	body, err := c.BalanceSheet(context.Background(), "tok")
	if err != nil {
		t.Fatalf("balance sheet: %v", err)
	}
	if body != `{"assets": 100}` {
		t.Fatalf("unexpected report body %q", body)
	}

	if _, err := c.ProfitAndLoss(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream on 500, got %v", err)
	}
	if _, err := c.CashFlow(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream on 500, got %v", err)
	}
}
