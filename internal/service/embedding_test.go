package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type embedScript struct {
	// fail[i] makes the i-th call return HTTP 500
	fail  map[int]bool
	dims  map[int]int // per-call vector length override, default 2
	calls int
	sizes []int // batch sizes seen
}

func (s *embedScript) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode embedding request: %v", err)
		}
		call := s.calls
		s.calls++
		s.sizes = append(s.sizes, len(req.Input))

		if s.fail[call] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		dim := 2
		if d, ok := s.dims[call]; ok {
			dim = d
		}

		w.Header().Set("Content-Type", "application/json")

		// Return items in reverse order to exercise index-based sorting.
		data := make([]map[string]interface{}, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(i)
			data = append(data, map[string]interface{}{
				"embedding": vec,
				"index":     i,
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}
}

func newTestEmbedding(t *testing.T, script *embedScript, batchSize int) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(script.handler(t))
	t.Cleanup(server.Close)

	return NewEmbeddingService(&EmbeddingConfig{
		Model:     "test-embedding",
		APIKey:    "k",
		BaseURL:   server.URL,
		BatchSize: batchSize,
	})
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	script := &embedScript{}
	svc := newTestEmbedding(t, script, 2)

	vectors, failed := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if failed != 0 {
		t.Fatalf("Unexpected failed batches: %d", failed)
	}
	if len(vectors) != 3 {
		t.Fatalf("Vector count: got %d, want 3", len(vectors))
	}
	// Two sequential calls: batch of 2 then batch of 1.
	if script.calls != 2 || script.sizes[0] != 2 || script.sizes[1] != 1 {
		t.Errorf("Batching: calls=%d, sizes=%v", script.calls, script.sizes)
	}
	// Position within each batch survives the reversed response order.
	if vectors[0][0] != 0 || vectors[1][0] != 1 || vectors[2][0] != 0 {
		t.Errorf("Order not preserved: %v", vectors)
	}
}

func TestEmbedBatchSkipsFailedBatchOnly(t *testing.T) {
	script := &embedScript{fail: map[int]bool{1: true}}
	svc := newTestEmbedding(t, script, 2)

	vectors, failed := svc.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	if failed != 1 {
		t.Fatalf("Failed batches: got %d, want 1", failed)
	}

	// First batch (a,b) and third batch (e) kept, second batch (c,d) skipped.
	for i, wantNil := range []bool{false, false, true, true, false} {
		if (vectors[i] == nil) != wantNil {
			t.Errorf("Vector %d nil=%v, want nil=%v", i, vectors[i] == nil, wantNil)
		}
	}
}

func TestEmbedBatchRejectsDimensionChange(t *testing.T) {
	script := &embedScript{dims: map[int]int{1: 3}}
	svc := newTestEmbedding(t, script, 2)

	vectors, failed := svc.EmbedBatch(context.Background(), []string{"a", "b", "c", "d"})
	if failed != 1 {
		t.Fatalf("Failed batches: got %d, want 1", failed)
	}
	if vectors[0] == nil || vectors[1] == nil {
		t.Errorf("Established-dimension batch must be kept")
	}
	if vectors[2] != nil || vectors[3] != nil {
		t.Errorf("Dimension-changing batch must be skipped")
	}
}

func TestEmbedQuery(t *testing.T) {
	script := &embedScript{}
	svc := newTestEmbedding(t, script, 32)

	vec, err := svc.EmbedQuery(context.Background(), "drone")
	if err != nil {
		t.Fatalf("EmbedQuery failed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("Query vector length: got %d, want 2", len(vec))
	}
	if script.sizes[0] != 1 {
		t.Errorf("EmbedQuery must send a single-element batch: got %d", script.sizes[0])
	}
}

func TestEmbedQueryFailure(t *testing.T) {
	script := &embedScript{fail: map[int]bool{0: true}}
	svc := newTestEmbedding(t, script, 32)

	if _, err := svc.EmbedQuery(context.Background(), "drone"); err == nil {
		t.Errorf("Expected error from failing embeddings API")
	}
}
