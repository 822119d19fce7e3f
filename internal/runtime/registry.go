// Package runtime holds the hot-swappable pieces of engine state: the
// current corpus index and normalizer. Everything behind the registry
// is immutable; a reload builds a fresh snapshot and swaps it in while
// in-flight extractions keep the one they started with.
package runtime

import (
	"sync"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Snapshot is one immutable generation of loaded corpus state.
type Snapshot struct {
	Index      driven.CorpusIndex
	Normalizer driven.Normalizer
	Source     string
	LoadedAt   time.Time
}

// Registry provides thread-safe access to the current snapshot.
type Registry struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewRegistry creates an empty registry. Extraction against an empty
// registry fails with domain.ErrEmptyIndex at the matcher.
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the active snapshot, or nil before the first load.
func (r *Registry) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Swap installs a new snapshot.
func (r *Registry) Swap(s *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
}
