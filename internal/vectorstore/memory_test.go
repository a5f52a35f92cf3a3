package vectorstore

import (
	"math"
	"testing"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
)

func entry(id string, vec ...float32) domain.VectorEntry {
	return domain.VectorEntry{
		ID:     id,
		Vector: vec,
		Meta:   domain.Meta{Name: "product " + id},
		Text:   "text " + id,
	}
}

func ids(results []domain.ScoredEntry) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestReplaceIsIdempotent(t *testing.T) {
	s := New()
	batch := []domain.VectorEntry{
		entry("1", 1, 0),
		entry("2", 0, 1),
	}

	s.Replace(batch)
	firstLen := s.Len()
	s.Replace(batch)

	if s.Len() != firstLen {
		t.Errorf("Replace with same input changed size: first=%d, second=%d", firstLen, s.Len())
	}
	if s.Len() != 2 {
		t.Errorf("Unexpected store size: got %d, want 2", s.Len())
	}
}

func TestReplaceDropsOldGeneration(t *testing.T) {
	s := New()
	s.Replace([]domain.VectorEntry{entry("old", 1, 0)})
	s.Replace([]domain.VectorEntry{entry("new", 0, 1)})

	if s.Len() != 1 {
		t.Fatalf("Unexpected store size after replace: got %d, want 1", s.Len())
	}
	results := s.Search([]float32{0, 1}, 1)
	if results[0].ID != "new" {
		t.Errorf("Old generation survived replace: got id %q", results[0].ID)
	}
}

func TestUpsertMergesByID(t *testing.T) {
	s := New()
	s.Replace([]domain.VectorEntry{
		entry("1", 1, 0),
		entry("2", 0, 1),
	})

	// Overlapping id 2 must carry the incoming data, id 3 is added,
	// id 1 stays untouched.
	b2 := entry("2", 1, 1)
	b2.Meta.Name = "updated"
	s.Upsert([]domain.VectorEntry{b2, entry("3", -1, 0)})

	if s.Len() != 3 {
		t.Fatalf("Unexpected store size after upsert: got %d, want 3 (|A ∪ B|)", s.Len())
	}
	for _, e := range s.Snapshot() {
		if e.ID == "2" && e.Meta.Name != "updated" {
			t.Errorf("Upsert did not replace overlapping entry: meta name %q", e.Meta.Name)
		}
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	s := New()
	s.Replace([]domain.VectorEntry{
		entry("orthogonal", 0, 1),
		entry("exact", 1, 0),
		entry("close", 0.9, 0.1),
	})

	results := s.Search([]float32{1, 0}, 10)

	if len(results) != 3 {
		t.Fatalf("topK beyond store size must return everything: got %d, want 3", len(results))
	}
	got := ids(results)
	want := []string{"exact", "close", "orthogonal"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Wrong ranking: got %v, want %v", got, want)
		}
	}
	if math.Abs(float64(results[0].Score)-1.0) > 1e-6 {
		t.Errorf("Self-similarity should be 1.0: got %f", results[0].Score)
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	s := New()
	s.Replace([]domain.VectorEntry{
		entry("first", 1, 0),
		entry("second", 2, 0), // same direction, same cosine
	})

	results := s.Search([]float32{1, 0}, 2)
	if results[0].ID != "first" || results[1].ID != "second" {
		t.Errorf("Ties must keep insertion order: got %v", ids(results))
	}
}

func TestSearchMismatchedDimensionRanksLast(t *testing.T) {
	s := New()
	s.Replace([]domain.VectorEntry{
		entry("threedim", 0.1, 0.1, 0.9),
		entry("ok", 1, 0),
	})

	results := s.Search([]float32{0, 1}, 2)
	if results[len(results)-1].ID != "threedim" {
		t.Errorf("Mismatched-length vector must rank last: got %v", ids(results))
	}
	if results[len(results)-1].Score != -1 {
		t.Errorf("Mismatched-length vector must score -1: got %f", results[len(results)-1].Score)
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := New()
	results := s.Search([]float32{1, 0}, 5)
	if len(results) != 0 {
		t.Errorf("Empty store must return an empty result: got %d entries", len(results))
	}
}

func TestDimensionEstablishedByFirstEntry(t *testing.T) {
	s := New()
	if s.Dimension() != DefaultDimension {
		t.Errorf("Fresh store dimension: got %d, want %d", s.Dimension(), DefaultDimension)
	}
	s.Replace([]domain.VectorEntry{entry("1", 1, 0, 0)})
	if s.Dimension() != 3 {
		t.Errorf("Dimension after first ingest: got %d, want 3", s.Dimension())
	}
}

func TestCosine(t *testing.T) {
	testCases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "length mismatch", a: []float32{1, 0}, b: []float32{1, 0, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(float64(got-tc.want)) > 1e-6 {
				t.Errorf("Cosine(%v, %v) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
