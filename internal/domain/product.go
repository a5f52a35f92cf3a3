package domain

import "strings"

// ProductRecord is a normalized catalog entry produced by feed mapping.
// The Text field is the exact string that gets embedded.
type ProductRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Tags        string `json:"tags"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Text        string `json:"text"`
}

// BuildText derives the embedding input from the mapped fields.
// The field order is fixed so re-ingesting identical input always
// yields an identical string.
func (p *ProductRecord) BuildText() string {
	parts := make([]string, 0, 6)
	if p.Name != "" {
		parts = append(parts, "Ürün: "+p.Name)
	}
	if p.Description != "" {
		parts = append(parts, "Açıklama: "+p.Description)
	}
	if p.Brand != "" {
		parts = append(parts, "Marka: "+p.Brand)
	}
	if p.Tags != "" {
		parts = append(parts, "Etiketler: "+p.Tags)
	}
	if p.Price != "" {
		parts = append(parts, "Fiyat: "+p.Price)
	}
	if p.URL != "" {
		parts = append(parts, "URL: "+p.URL)
	}
	return strings.Join(parts, "\n")
}

// HasSignal reports whether the record has anything worth embedding.
// Records without a name and without a description are dropped before
// the embedding step.
func (p *ProductRecord) HasSignal() bool {
	return p.Name != "" || p.Description != ""
}

// Meta is the display-relevant subset of a ProductRecord kept next to
// its vector and returned with search results.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Price       string `json:"price,omitempty"`
	URL         string `json:"url,omitempty"`
}

// MetaOf extracts the display subset of a record.
func MetaOf(p *ProductRecord) Meta {
	return Meta{
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Tags:        p.Tags,
		Price:       p.Price,
		URL:         p.URL,
	}
}

// VectorEntry is the stored unit of the vector store.
type VectorEntry struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
	Meta   Meta      `json:"meta"`
	Text   string    `json:"text"`
}

// ScoredEntry is a VectorEntry with a cosine similarity score attached.
type ScoredEntry struct {
	VectorEntry
	Score float32 `json:"score"`
}
