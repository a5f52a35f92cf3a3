package service

import (
	"context"
	"sync"
	"time"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/feed"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/logger"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/vectorstore"
)

// Downloader retrieves raw feed documents.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Embedder converts texts into numeric vectors. Batch failures are
// recovered by skipping the affected texts (nil vector), so EmbedBatch
// reports a failed-batch count instead of an error.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, int)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// IngestService runs the ingestion pipeline: download feed, normalize
// via field mapping, embed in batches, swap or merge the vector store.
type IngestService struct {
	fetcher      Downloader
	embedding    Embedder
	store        *vectorstore.Store
	defaultLimit int

	// mu serializes store application and the summary handoff so /stats
	// never observes a half-published ingest.
	mu          sync.Mutex
	lastSummary *IngestSummary
}

// NewIngestService creates a new ingest service.
func NewIngestService(fetcher Downloader, embedding Embedder, store *vectorstore.Store, defaultLimit int) *IngestService {
	if defaultLimit <= 0 {
		defaultLimit = feed.DefaultLimit
	}
	return &IngestService{
		fetcher:      fetcher,
		embedding:    embedding,
		store:        store,
		defaultLimit: defaultLimit,
	}
}

// IngestRequest describes one feed ingestion.
type IngestRequest struct {
	URL      string            `json:"url" binding:"required"`
	Format   string            `json:"format,omitempty"` // xml or csv; autodetected when empty
	ItemPath string            `json:"itemPath"`
	Mapping  map[string]string `json:"mapping"`
	Limit    int               `json:"limit,omitempty"`
	Append   bool              `json:"append"` // true merges by id instead of replacing
}

// IngestSummary reports how many records were processed versus how many
// ended up indexed.
type IngestSummary struct {
	Processed     int    `json:"processed"`
	Indexed       int    `json:"indexed"`
	Skipped       int    `json:"skipped"`
	FailedBatches int    `json:"failed_batches"`
	Dimension     int    `json:"dimension"`
	Mode          string `json:"mode"`
	DurationMs    int64  `json:"duration_ms"`
}

// IngestFeed downloads, normalizes and embeds a product feed, then
// applies the result to the vector store. Records whose embedding batch
// failed are skipped without aborting the ingestion.
func (s *IngestService) IngestFeed(ctx context.Context, req *IngestRequest) (*IngestSummary, error) {
	if req.URL == "" {
		return nil, domain.BadRequest("url is required")
	}
	if req.ItemPath == "" {
		return nil, domain.BadRequest("itemPath is required")
	}
	if len(req.Mapping) == 0 {
		return nil, domain.BadRequest("mapping is required")
	}

	start := time.Now()
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "ingest",
		logger.FieldFeedURL:   req.URL,
	})

	body, err := s.fetcher.Download(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	format := feed.Format(req.Format)
	if format == "" {
		format = feed.DetectFormat(body)
	}
	root, err := feed.Parse(body, format)
	if err != nil {
		return nil, domain.BadRequest("failed to parse %s feed: %v", format, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	records, err := feed.Normalize(root, req.ItemPath, req.Mapping, limit)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	vectors, failedBatches := s.embedding.EmbedBatch(ctx, texts)

	entries := make([]domain.VectorEntry, 0, len(records))
	for i, rec := range records {
		if vectors[i] == nil {
			continue
		}
		entries = append(entries, domain.VectorEntry{
			ID:     rec.ID,
			Vector: vectors[i],
			Meta:   domain.MetaOf(&records[i]),
			Text:   rec.Text,
		})
	}

	summary := &IngestSummary{
		Processed:     len(records),
		Indexed:       len(entries),
		Skipped:       len(records) - len(entries),
		FailedBatches: failedBatches,
		Mode:          "replace",
		DurationMs:    time.Since(start).Milliseconds(),
	}
	if req.Append {
		summary.Mode = "upsert"
	}

	s.mu.Lock()
	s.applyLocked(entries, req.Append)
	summary.Dimension = s.store.Dimension()
	s.lastSummary = summary
	s.mu.Unlock()

	logger.CtxInfo(ctx, "Ingestion completed: processed=%d, indexed=%d, skipped=%d, failed_batches=%d, mode=%s, duration_ms=%d",
		summary.Processed, summary.Indexed, summary.Skipped, summary.FailedBatches, summary.Mode, summary.DurationMs)

	return summary, nil
}

// Apply replaces the store content with entries, or merges them by id
// when append is set.
func (s *IngestService) Apply(entries []domain.VectorEntry, append bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(entries, append)
}

func (s *IngestService) applyLocked(entries []domain.VectorEntry, append bool) {
	if append {
		s.store.Upsert(entries)
		return
	}
	s.store.Replace(entries)
}

// Stats describes the current store generation.
type Stats struct {
	Entries    int            `json:"entries"`
	Dimension  int            `json:"dimension"`
	LastIngest *IngestSummary `json:"last_ingest,omitempty"`
}

// Stats reports store size, dimension and the last ingest summary.
func (s *IngestService) Stats() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Stats{
		Entries:    s.store.Len(),
		Dimension:  s.store.Dimension(),
		LastIngest: s.lastSummary,
	}
}
