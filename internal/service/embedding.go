package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/logger"
)

// DefaultBatchSize is the number of texts sent per embedding call.
const DefaultBatchSize = 32

// EmbeddingService generates text embeddings through an OpenAI-compatible
// embeddings endpoint.
type EmbeddingService struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
	batchSize  int
}

// EmbeddingConfig holds configuration for the embedding service.
type EmbeddingConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	BatchSize  int
	Timeout    time.Duration
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg *EmbeddingConfig) *EmbeddingService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EmbeddingService{
		client:     client,
		endpoint:   baseURL + "/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  batchSize,
	}
}

// GetModel returns the model name being used.
func (s *EmbeddingService) GetModel() string {
	return s.model
}

// OpenAI-compatible embeddings API request/response structures
type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// EmbedBatch embeds texts in sequential batches and returns one vector
// per input text, in input order. A failed batch does not abort the
// run and does not lose vectors obtained by earlier batches: its texts
// get a nil vector, a warning is logged, and the failed-batch count is
// reported to the caller. A batch also fails when the provider returns
// the wrong number of vectors or a vector whose length differs from the
// dimension established by the first successful batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, int) {
	vectors := make([][]float32, len(texts))
	failedBatches := 0
	dimension := 0

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		embeddings, err := s.embedCall(ctx, batch)
		if err == nil {
			for _, v := range embeddings {
				if dimension == 0 {
					dimension = len(v)
				} else if len(v) != dimension {
					err = fmt.Errorf("vector dimension changed: got %d, expected %d", len(v), dimension)
					break
				}
			}
		}
		if err != nil {
			failedBatches++
			logger.CtxWarn(ctx, "Embedding batch failed, skipping %d records: offset=%d, error=%v",
				len(batch), start, err)
			continue
		}

		copy(vectors[start:end], embeddings)
	}

	return vectors, failedBatches
}

// EmbedQuery embeds a single question as a one-element batch.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := s.embedCall(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// embedCall performs one external embeddings request for a batch.
func (s *EmbeddingService) embedCall(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{
		Model:      s.model,
		Input:      texts,
		Dimensions: s.dimensions,
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return nil, fmt.Errorf("embeddings API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Data), len(texts))
	}

	// Sort by index to ensure correct order
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}
	for i, v := range embeddings {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}

	return embeddings, nil
}
