// Package insight generates a short financial commentary on the
// filtered ledger through an OpenAI-compatible API.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"affitti/internal/core"
)

// User-facing messages. The generic failure path embeds the error so
// the page shows why the insight is missing.
const (
	MsgInsufficientData  = "Non ci sono abbastanza dati per generare un'analisi. Aggiungi qualche transazione."
	MsgServiceOverloaded = "Il servizio di analisi è momentaneamente sovraccarico. Riprova tra qualche minuto."
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Requester struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func New(cfg Config) *Requester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Requester{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Generate returns commentary text for the given transactions. It never
// returns an error: failure modes map to fixed user-facing messages so
// the caller can render the result directly. An empty transaction list
// short-circuits without calling the API.
func (r *Requester) Generate(ctx context.Context, txs []core.Transaction, periodLabel string) string {
	if len(txs) == 0 {
		return MsgInsufficientData
	}

	prompt, err := buildPrompt(txs, periodLabel)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build insight prompt", "error", err)
		return fmt.Sprintf("Non è stato possibile generare l'analisi: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if isRateLimited(err) {
			slog.WarnContext(ctx, "Insight service rate limited")
			return MsgServiceOverloaded
		}
		slog.ErrorContext(ctx, "Insight request failed", "error", err)
		return fmt.Sprintf("Non è stato possibile generare l'analisi: %v", err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Sprintf("Non è stato possibile generare l'analisi: %v", errors.New("empty response"))
	}
	return resp.Choices[0].Message.Content
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
