package driving

import (
	"context"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// CorpusService owns the corpus lifecycle: loading the code table,
// validating it, building the index and swapping it into the runtime
// registry.
type CorpusService interface {
	// Load reads the configured source, validates it and installs the
	// built index. Any malformed row fails the whole load.
	Load(ctx context.Context) error

	// Reload re-runs Load; extraction sessions keep using the previous
	// index until the swap.
	Reload(ctx context.Context) error

	// Get returns the entry for a code from the loaded corpus.
	Get(ctx context.Context, code string) (*domain.CodeEntry, error)

	// Status reports on the currently loaded corpus.
	Status() domain.CorpusStatus

	// Populate copies the file corpus into the database store, for the
	// load-corpus run mode.
	Populate(ctx context.Context) error
}
