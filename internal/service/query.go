package service

import (
	"context"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/logger"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/vectorstore"
)

// Generator produces an answer from a question and retrieved records.
type Generator interface {
	Generate(ctx context.Context, question string, records []domain.ScoredEntry) (string, error)
}

// QueryService answers catalog questions: embed the question, retrieve
// the top-K most similar products, generate an answer constrained to
// that context. It never mutates the vector store.
type QueryService struct {
	store       *vectorstore.Store
	embedding   Embedder
	generation  Generator
	defaultTopK int
}

// NewQueryService creates a new query service.
func NewQueryService(store *vectorstore.Store, embedding Embedder, generation Generator, defaultTopK int) *QueryService {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &QueryService{
		store:       store,
		embedding:   embedding,
		generation:  generation,
		defaultTopK: defaultTopK,
	}
}

// Answer runs the retrieval-augmented query flow and returns the
// generated answer text verbatim along with the retrieved matches.
func (s *QueryService) Answer(ctx context.Context, question string, topK int) (string, []domain.ScoredEntry, error) {
	if question == "" {
		return "", nil, domain.BadRequest("question is required")
	}
	if s.store.Len() == 0 {
		return "", nil, domain.PreconditionFailed("vector store is empty, ingest a feed first")
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "query",
	})

	queryVector, err := s.embedding.EmbedQuery(ctx, question)
	if err != nil {
		return "", nil, err
	}

	matches := s.store.Search(queryVector, topK)
	logger.CtxInfo(ctx, "Retrieved context for question: matches=%d, top_k=%d", len(matches), topK)

	answer, err := s.generation.Generate(ctx, question, matches)
	if err != nil {
		return "", nil, err
	}
	return answer, matches, nil
}
