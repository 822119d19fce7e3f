package driven

import (
	"context"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// ResultCache is an optional read-through cache for extraction results,
// keyed by a digest of document id, text and match options.
type ResultCache interface {
	// Get returns the cached result for key, or nil, nil on a miss.
	Get(ctx context.Context, key string) (*domain.ExtractionResult, error)

	// Set stores a result under key with the given TTL.
	Set(ctx context.Context, key string, result *domain.ExtractionResult, ttl time.Duration) error
}
