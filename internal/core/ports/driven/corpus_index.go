package driven

import "github.com/clinicode-labs/clinicode-core/internal/core/domain"

// Overlap is one index hit: a corpus entry and its term-overlap score
// against the query term set.
type Overlap struct {
	Entry *domain.CodeEntry
	Score float64
}

// CorpusIndex is the searchable, immutable view of a loaded corpus.
// Implementations must be safe for concurrent readers; there is no
// writer after construction.
type CorpusIndex interface {
	// LookupByTerms returns entries whose description terms intersect
	// the query terms, scored by Jaccard overlap and sorted score
	// descending then code ascending. Duplicate query terms are
	// collapsed. Never returns an entry absent from the corpus.
	LookupByTerms(terms []string) []Overlap

	// Get returns the entry for a code, or domain.ErrCodeNotFound.
	Get(code string) (*domain.CodeEntry, error)

	// TermsFor returns the normalized description terms of a code in
	// first-appearance order, or nil if the code is absent.
	TermsFor(code string) []string

	// Len returns the number of indexed entries.
	Len() int

	// TermCount returns the number of distinct indexed terms.
	TermCount() int
}

// Normalizer turns raw report text into a normalized token sequence.
// Implementations are stateless per call and deterministic.
type Normalizer interface {
	Normalize(raw string) []domain.NormalizedToken
}
