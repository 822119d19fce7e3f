package driven

import (
	"context"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// CorpusSource supplies the raw ICD-10-CM code table. Sources return
// entries in stable order; validation (duplicates, parent cycles, code
// format) happens in the corpus service, not in the source.
type CorpusSource interface {
	// Load reads all corpus entries. A read or parse failure means the
	// whole load fails - a partial corpus is never returned.
	Load(ctx context.Context) ([]domain.CodeEntry, error)

	// Describe returns a human-readable source location for logging
	// and status reporting.
	Describe() string
}

// CorpusStore is a corpus source that can also be written, used by the
// load-corpus run mode to populate the database from a corpus file.
type CorpusStore interface {
	CorpusSource

	// Upsert inserts or updates entries in a single transaction.
	Upsert(ctx context.Context, entries []domain.CodeEntry) error
}

// AbbreviationSource supplies the abbreviation-expansion table used by
// the normalizer (e.g. "appy" -> "appendectomy").
type AbbreviationSource interface {
	Load(ctx context.Context) (map[string]string, error)
}
