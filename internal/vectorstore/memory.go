package vectorstore

import (
	"math"
	"sort"
	"sync"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
)

// epsilon keeps the cosine denominator away from zero for zero vectors.
const epsilon = 1e-12

// DefaultDimension is the assumed vector dimension before the first
// ingestion establishes the real one.
const DefaultDimension = 1536

// Store is an in-memory vector store using brute-force cosine
// similarity. Entries are keyed by product id; ingestion either
// replaces the whole generation or merges by id. A single RWMutex
// serializes writers, so racing ingests resolve to last-writer-wins and
// readers always observe a pre- or post-ingestion snapshot.
type Store struct {
	mu        sync.RWMutex
	entries   []domain.VectorEntry
	byID      map[string]int
	dimension int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID:      make(map[string]int),
		dimension: DefaultDimension,
	}
}

// Replace atomically sets the store content to exactly the given
// entries, dropping the previous generation.
func (s *Store) Replace(entries []domain.VectorEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]domain.VectorEntry, 0, len(entries))
	s.byID = make(map[string]int, len(entries))
	for _, e := range entries {
		if prev, ok := s.byID[e.ID]; ok {
			s.entries[prev] = e
			continue
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	s.adoptDimensionLocked()
}

// Upsert merges entries by id: an incoming entry with a known id fully
// replaces the stored one in place, new ids are appended, and nothing
// is implicitly removed.
func (s *Store) Upsert(entries []domain.VectorEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if prev, ok := s.byID[e.ID]; ok {
			s.entries[prev] = e
			continue
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	s.adoptDimensionLocked()
}

// adoptDimensionLocked fixes the store dimension from the first stored
// vector. Callers hold the write lock.
func (s *Store) adoptDimensionLocked() {
	for _, e := range s.entries {
		if len(e.Vector) > 0 {
			s.dimension = len(e.Vector)
			return
		}
	}
}

// Search scores every stored vector against query by cosine similarity
// and returns the topK best entries in descending order. Ties keep
// insertion order. Vectors whose length does not match the query score
// -1 and rank last instead of failing. topK beyond the store size
// returns everything; an empty store returns an empty result.
func (s *Store) Search(query []float32, topK int) []domain.ScoredEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}

	scored := make([]domain.ScoredEntry, len(s.entries))
	for i, e := range s.entries {
		scored[i] = domain.ScoredEntry{
			VectorEntry: e,
			Score:       Cosine(query, e.Vector),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Dimension returns the established vector dimension.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// Snapshot returns a copy of the current entries in insertion order.
func (s *Store) Snapshot() []domain.VectorEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.VectorEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Cosine computes dot(a,b) / (||a|| * ||b|| + epsilon). Vectors of
// different lengths are incomparable and score -1, so they always rank
// last.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return float32(dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon))
}
