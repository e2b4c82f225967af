package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/llm"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/metrics"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// fallbackReply is returned when the model cannot answer. The endpoint
// never surfaces model failures as errors.
const fallbackReply = "I could not generate an answer right now. Please try again in a moment."

// Reports fetches the financial reports the copilot grounds its answers on.
type Reports interface {
	BalanceSheet(ctx context.Context, token string) (string, error)
	ProfitAndLoss(ctx context.Context, token string) (string, error)
	CashFlow(ctx context.Context, token string) (string, error)
}

// Service answers bookkeeping questions grounded on the user's reports.
type Service struct {
	reports Reports
	model   llm.Provider
}

// NewService wires the copilot collaborators.
func NewService(reports Reports, model llm.Provider) *Service {
	return &Service{reports: reports, model: model}
}

// Answer fetches the three reports sequentially, composes the prompt, and
// returns the model's reply. Any report failure aborts the whole request;
// there is no partial-answer mode.
func (s *Service) Answer(ctx context.Context, identity auth.Identity, token, message string) (string, error) {
	metrics.IncCopilotRequest()

	balance, err := s.reports.BalanceSheet(ctx, token)
	if err != nil {
		metrics.IncCopilotFailed()
		return "", fmt.Errorf("fetch balance sheet: %w", err)
	}
	profitLoss, err := s.reports.ProfitAndLoss(ctx, token)
	if err != nil {
		metrics.IncCopilotFailed()
		return "", fmt.Errorf("fetch profit and loss: %w", err)
	}
	cashflow, err := s.reports.CashFlow(ctx, token)
	if err != nil {
		metrics.IncCopilotFailed()
		return "", fmt.Errorf("fetch cash flow: %w", err)
	}

	prompt := buildPrompt(identity, balance, profitLoss, cashflow, message)

	reply, err := s.model.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		fields := map[string]any{"user_id": identity.UserID, "provider": s.model.Name()}
		if err != nil {
			fields["error"] = err.Error()
		}
		telemetry.Warn("copilot.model_failed", fields)
		return fallbackReply, nil
	}
	return reply, nil
}

func buildPrompt(identity auth.Identity, balance, profitLoss, cashflow, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the business copilot for user %s (%s).\n", identity.Username, identity.Email)
	b.WriteString("Use the user's financial data to answer questions and give advice.\n\n")
	fmt.Fprintf(&b, "Balance Sheet: %s\n", balance)
	fmt.Fprintf(&b, "Profit and Loss: %s\n", profitLoss)
	fmt.Fprintf(&b, "Cash Flow: %s\n\n", cashflow)
	fmt.Fprintf(&b, "User Message: %s\n", message)
	return b.String()
}
