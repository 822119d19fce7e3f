package driving

import (
	"context"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// ExtractionService runs one document through the full pipeline:
// normalize -> match -> rank.
type ExtractionService interface {
	// Extract processes a single document and returns its complete
	// result, or an error - never both. A document with no matching
	// text yields a result with zero candidates, not an error.
	Extract(ctx context.Context, documentID, text string, opts domain.MatchOptions) (*domain.ExtractionResult, error)
}

// BatchService processes many documents concurrently against the shared
// read-only corpus index. Per-document failures are isolated.
type BatchService interface {
	// ExtractBatch returns one BatchResult per input document, in input
	// order. It fails as a whole only when the context is cancelled.
	ExtractBatch(ctx context.Context, docs []domain.BatchDocument, opts domain.MatchOptions) ([]domain.BatchResult, error)
}
