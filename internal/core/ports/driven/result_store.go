package driven

import (
	"context"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// ResultStore persists extraction results for later review.
type ResultStore interface {
	// Save stores a result. Results are append-only; repeated
	// extractions of the same document keep their own rows.
	Save(ctx context.Context, result *domain.ExtractionResult) error

	// GetLatest returns the most recent result for a document, or
	// nil, nil when none exists.
	GetLatest(ctx context.Context, documentID string) (*domain.ExtractionResult, error)

	// ListByDocument returns results for a document, newest first.
	ListByDocument(ctx context.Context, documentID string, limit int) ([]*domain.ExtractionResult, error)
}
