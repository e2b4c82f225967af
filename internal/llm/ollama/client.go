package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nick-Maximillien/autobooks-ai/internal/llm"
)

const defaultModel = "llama3"

// Client implements llm.Provider against a self-hosted completion server.
type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

// NewClient constructs a completion-server provider for the given generate
// endpoint URL.
func NewClient(url, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		url:        url,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "ollama" }

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate posts the prompt to the completion server and returns the
// response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("completion server: status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse completion response: %w", err)
	}

	out := strings.TrimSpace(parsed.Response)
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

var _ llm.Provider = (*Client)(nil)
