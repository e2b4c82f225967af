package copilot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/ledger"
)

func newCopilotRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("identity", auth.Identity{Username: "nick", Email: "nick@example.com", UserID: "7"})
		c.Set("accessToken", "tok")
		c.Next()
	})
	NewHandler(svc).Register(r)
	return r
}

func TestAskReturnsReply(t *testing.T) {
	reports := &stubReports{balance: "{}", pnl: "{}", cashflow: "{}"}
	svc := NewService(reports, &stubModel{out: "Revenue is up."})
	r := newCopilotRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/copilot", strings.NewReader(`{"message":"how are sales?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp["reply"] != "Revenue is up." {
		t.Fatalf("unexpected reply %q", resp["reply"])
	}
}

func TestAskMissingMessage(t *testing.T) {
	svc := NewService(&stubReports{}, &stubModel{})
	r := newCopilotRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/copilot", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAskReportFailureIs502(t *testing.T) {
	reports := &stubReports{balanceErr: fmt.Errorf("%w: /balance-sheet/: status 500", ledger.ErrUpstream)}
	svc := NewService(reports, &stubModel{})
	r := newCopilotRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/copilot", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] == "" {
		t.Fatalf("expected detail body, got %s", w.Body.String())
	}
}
