package index

import (
	"context"

	"github.com/Marcelele-0/AI-upskilling/core"
)

// Document is a stored chunk of text together with its embedding.
type Document struct {
	// ID is the internal content-addressed key.
	ID core.ID

	// ExternalID is the caller-facing document identifier surfaced in
	// search results, e.g. "doc1". Falls back to the hex form of ID when
	// the populator did not supply one.
	ExternalID string

	// Content is the chunk text used for answer generation context.
	Content string

	// Vector is the embedding used for similarity ranking.
	Vector []float32
}

// Index is nearest-neighbor search over stored documents.
// Implementations must be thread-safe and support concurrent searches.
type Index interface {
	// Search returns up to k documents ranked by descending similarity to
	// the query vector. Scores are non-negative. Returns an empty slice
	// when nothing matches.
	Search(ctx context.Context, vector []float32, k int) ([]core.RetrievedDocument, error)

	// Upsert stores documents, replacing any existing entries with the
	// same ID. Documents with a zero ID get a content-addressed one.
	Upsert(ctx context.Context, docs ...Document) error

	// Close closes the index and releases resources.
	Close() error
}
