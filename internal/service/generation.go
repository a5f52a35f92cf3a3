package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/logger"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/prompts"
)

// GenerationService calls a chat-completion provider (OpenRouter) with a
// prioritized candidate model list, retrying rate limits and server
// errors with exponential backoff and falling back across models.
type GenerationService struct {
	client      *resty.Client
	baseURL     string
	models      []string
	maxAttempts int
	baseDelay   time.Duration

	// sleep waits for a backoff delay. Swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// GenerationConfig holds configuration for the generation service.
type GenerationConfig struct {
	APIKey      string
	BaseURL     string
	Referer     string
	AppName     string
	Models      []string
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
}

// NewGenerationService creates a new generation service.
func NewGenerationService(cfg *GenerationConfig) *GenerationService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.AppName != "" {
		client.SetHeader("X-Title", cfg.AppName)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	models := cfg.Models
	if len(models) == 0 {
		models = []string{"openai/gpt-4o-mini", "openai/gpt-4o", "openai/gpt-3.5-turbo"}
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 800 * time.Millisecond
	}

	return &GenerationService{
		client:      client,
		baseURL:     baseURL,
		models:      models,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}

// OpenRouter chat completions request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask answers a single-shot support question without retrieval context.
func (s *GenerationService) Ask(ctx context.Context, userMessage string) (string, error) {
	return s.complete(ctx, []chatMessage{
		{Role: "system", Content: prompts.AskSystemPrompt},
		{Role: "user", Content: userMessage},
	})
}

// Generate answers a question using only the retrieved catalog records.
// The records are concatenated in retrieval order into a numbered
// "Source N" context block ahead of the question.
func (s *GenerationService) Generate(ctx context.Context, question string, records []domain.ScoredEntry) (string, error) {
	userContent := fmt.Sprintf("Bağlam:\n%s\nSoru: %s", BuildContextBlock(records), question)
	return s.complete(ctx, []chatMessage{
		{Role: "system", Content: prompts.RAGSystemPrompt},
		{Role: "user", Content: userContent},
	})
}

// BuildContextBlock renders retrieved records as numbered sources with
// their display fields, in retrieval order.
func BuildContextBlock(records []domain.ScoredEntry) string {
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "Source %d:\n", i+1)
		writeField(&b, "Ürün", rec.Meta.Name)
		writeField(&b, "Açıklama", rec.Meta.Description)
		writeField(&b, "Marka", rec.Meta.Brand)
		writeField(&b, "Etiketler", rec.Meta.Tags)
		writeField(&b, "Fiyat", rec.Meta.Price)
		writeField(&b, "URL", rec.Meta.URL)
		b.WriteString("\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}

// complete runs the retry/fallback state machine over the candidate
// models. Outer state is the current model, inner state the attempt
// count: a 429 or 5xx retries the same model after baseDelay*2^(n-1);
// any other failure (including an empty reply) abandons the model and
// advances to the next candidate; the first usable reply wins. When
// everything is exhausted the last upstream status and body are
// surfaced to the caller for diagnostics.
func (s *GenerationService) complete(ctx context.Context, messages []chatMessage) (string, error) {
	var lastErr error
	var lastStatus int
	var lastBody string

	for _, model := range s.models {
		for attempt := 1; attempt <= s.maxAttempts; attempt++ {
			logger.CtxInfo(ctx, "Calling chat completion: model=%s, attempt=%d", model, attempt)

			reply, status, body, err := s.attempt(ctx, model, messages)
			if err == nil {
				return reply, nil
			}

			lastErr = err
			lastStatus = status
			lastBody = body
			logger.CtxWarn(ctx, "Chat completion failed: model=%s, attempt=%d, status=%d, error=%v",
				model, attempt, status, err)

			if status != 429 && (status < 500 || status > 599) {
				// Not retryable on this model, advance to the next candidate
				break
			}
			if attempt == s.maxAttempts {
				break
			}
			delay := s.baseDelay * (1 << (attempt - 1))
			logger.CtxWarn(ctx, "Rate limited or server error, retrying after %s", delay)
			if err := s.sleep(ctx, delay); err != nil {
				return "", domain.UpstreamFailure(lastStatus, lastBody, err)
			}
		}
	}

	return "", domain.UpstreamFailure(lastStatus, lastBody, lastErr)
}

// attempt performs one chat-completion request against one model. The
// returned status is zero for transport-level failures.
func (s *GenerationService) attempt(ctx context.Context, model string, messages []chatMessage) (string, int, string, error) {
	req := chatRequest{Model: model, Messages: messages}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.baseURL + "/chat/completions")

	if err != nil {
		return "", 0, "", fmt.Errorf("failed to call chat API: %w", err)
	}

	status := httpResp.StatusCode()
	if status < 200 || status >= 300 {
		if resp.Error != nil {
			return "", status, string(httpResp.Body()), fmt.Errorf("chat API error: HTTP %d: %s", status, resp.Error.Message)
		}
		return "", status, string(httpResp.Body()), fmt.Errorf("chat API error: HTTP %d", status)
	}

	reply := extractReply(&resp)
	if reply == "" {
		return "", status, string(httpResp.Body()), domain.EmptyReply("chat response contained no message content")
	}
	return reply, status, "", nil
}

// extractReply pulls the message content out of a chat response,
// falling back to streaming-delta content.
func extractReply(resp *chatResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	if content := resp.Choices[0].Message.Content; content != "" {
		return content
	}
	return resp.Choices[0].Delta.Content
}

// modelsResponse is the provider model listing payload.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels fetches the provider model listing filtered to GPT models.
func (s *GenerationService) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetResult(&resp).
		Get(s.baseURL + "/models")

	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		return nil, domain.UpstreamFailure(httpResp.StatusCode(), string(httpResp.Body()),
			fmt.Errorf("model listing returned HTTP %d", httpResp.StatusCode()))
	}

	names := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		if strings.Contains(strings.ToLower(m.ID), "gpt") {
			names = append(names, m.ID)
		}
	}
	return names, nil
}
