package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// ErrUpstream marks a report fetch that failed at the backend. The boundary
// maps it to a gateway failure.
var ErrUpstream = errors.New("ledger upstream failure")

// Client talks to the bookkeeping backend over HTTP.
type Client struct {
	baseURL      string
	ingestClient *http.Client
	reportClient *http.Client
}

// NewClient constructs a backend client. Ingest calls get a large bounded
// timeout, report calls a short one.
func NewClient(baseURL string, ingestTimeout, reportTimeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ingestClient: &http.Client{Timeout: ingestTimeout},
		reportClient: &http.Client{Timeout: reportTimeout},
	}
}

// SaveDocument posts one structured document to the backend ingestion
// endpoint and returns the parsed confirmation. Any non-2xx status is an
// error; there is no retry, the caller owns the duplicate-submission risk.
func (c *Client) SaveDocument(ctx context.Context, token string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal document payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.ingestClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post document: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.Error("ledger.save_document.failed", map[string]any{
			"status": resp.StatusCode,
			"body":   truncate(string(respBody), 1024),
		})
		return nil, fmt.Errorf("backend rejected document: status %d", resp.StatusCode)
	}

	confirmation := map[string]any{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &confirmation); err != nil {
			return nil, fmt.Errorf("parse document confirmation: %w", err)
		}
	}
	return confirmation, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/refresh/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.reportClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("refresh token: status %d", resp.StatusCode)
	}

	var parsed struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("refresh token: parse response: %w", err)
	}
	if strings.TrimSpace(parsed.Access) == "" {
		return "", fmt.Errorf("refresh token: empty access token")
	}
	return parsed.Access, nil
}

// BalanceSheet fetches the balance sheet report body.
func (c *Client) BalanceSheet(ctx context.Context, token string) (string, error) {
	return c.fetchReport(ctx, token, "/balance-sheet/")
}

// ProfitAndLoss fetches the profit-and-loss report body.
func (c *Client) ProfitAndLoss(ctx context.Context, token string) (string, error) {
	return c.fetchReport(ctx, token, "/pnl/")
}

// CashFlow fetches the cash flow report body.
func (c *Client) CashFlow(ctx context.Context, token string) (string, error) {
	return c.fetchReport(ctx, token, "/cashflow/")
}

func (c *Client) fetchReport(ctx context.Context, token, reportPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reportPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.reportClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUpstream, reportPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: read body: %v", ErrUpstream, reportPath, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: status %d", ErrUpstream, reportPath, resp.StatusCode)
	}
	return string(body), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
