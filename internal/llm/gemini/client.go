package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Nick-Maximillien/autobooks-ai/internal/llm"
)

const defaultModel = "gemini-1.5-flash"

// Client implements llm.Provider using the Gemini generative API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini provider. Credentials come from the API key
// when set, otherwise from a service-account credentials file.
func NewClient(ctx context.Context, apiKey, credentialsFile, model string) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(apiKey) != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	case strings.TrimSpace(credentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		return nil, fmt.Errorf("gemini requires GEMINI_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Name() string { return "gemini" }

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate. Blocked or empty candidates are reported as
// llm.ErrEmptyResponse so callers can degrade.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(512)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockLowAndAbove},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ llm.Provider = (*Client)(nil)
