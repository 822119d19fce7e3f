// Package index provides the in-memory searchable view of an ICD-10-CM
// corpus: an inverted term index over code descriptions with
// Jaccard-overlap lookup.
package index

import (
	"fmt"
	"sort"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusIndex = (*Index)(nil)

// Index is immutable after Build and safe for concurrent readers.
// Entries are held in an arena slice addressed by position; parent
// links remain code strings, so the hierarchy is a forest of values
// with no pointer cycles.
type Index struct {
	entries []domain.CodeEntry
	byCode  map[string]int

	// postings maps a description term to the ids of entries whose
	// description contains it, ascending.
	postings map[string][]int

	// entryTerms holds each entry's distinct normalized description
	// terms in first-appearance order; entryTermSets mirrors it as sets
	// for O(1) membership during scoring.
	entryTerms    [][]string
	entryTermSets []map[string]struct{}
}

// Build indexes the given entries using tok to normalize description
// text. Entries are assumed validated (unique codes, resolvable
// parents); Build only rejects what would corrupt the index itself.
func Build(entries []domain.CodeEntry, tok driven.Normalizer) (*Index, error) {
	idx := &Index{
		entries:       make([]domain.CodeEntry, len(entries)),
		byCode:        make(map[string]int, len(entries)),
		postings:      make(map[string][]int),
		entryTerms:    make([][]string, len(entries)),
		entryTermSets: make([]map[string]struct{}, len(entries)),
	}
	copy(idx.entries, entries)

	for i, e := range idx.entries {
		if e.Code == "" {
			return nil, fmt.Errorf("%w: entry %d has empty code", domain.ErrCorpusLoad, i)
		}
		if _, dup := idx.byCode[e.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", domain.ErrCorpusLoad, e.Code)
		}
		idx.byCode[e.Code] = i

		terms, set := descriptionTerms(e, tok)
		idx.entryTerms[i] = terms
		idx.entryTermSets[i] = set
		for _, t := range terms {
			idx.postings[t] = append(idx.postings[t], i)
		}
	}
	return idx, nil
}

// descriptionTerms normalizes the short and long descriptions into a
// distinct term list in first-appearance order.
func descriptionTerms(e domain.CodeEntry, tok driven.Normalizer) ([]string, map[string]struct{}) {
	set := make(map[string]struct{})
	var terms []string
	for _, text := range []string{e.ShortDescription, e.LongDescription} {
		for _, t := range tok.Normalize(text) {
			if _, seen := set[t.Normal]; seen {
				continue
			}
			set[t.Normal] = struct{}{}
			terms = append(terms, t.Normal)
		}
	}
	return terms, set
}

// LookupByTerms returns entries whose description terms intersect the
// query terms, scored by Jaccard overlap |q∩d| / |q∪d|, sorted score
// descending then code ascending.
func (x *Index) LookupByTerms(terms []string) []driven.Overlap {
	if len(terms) == 0 || len(x.entries) == 0 {
		return nil
	}

	query := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t != "" {
			query[t] = struct{}{}
		}
	}
	if len(query) == 0 {
		return nil
	}

	// Gather intersection counts over posting lists only; entries with
	// no shared term are never visited.
	shared := make(map[int]int)
	for t := range query {
		for _, id := range x.postings[t] {
			shared[id]++
		}
	}
	if len(shared) == 0 {
		return nil
	}

	overlaps := make([]driven.Overlap, 0, len(shared))
	for id, inter := range shared {
		union := len(query) + len(x.entryTermSets[id]) - inter
		score := float64(inter) / float64(union)
		overlaps = append(overlaps, driven.Overlap{
			Entry: &x.entries[id],
			Score: score,
		})
	}

	sort.Slice(overlaps, func(i, j int) bool {
		if overlaps[i].Score != overlaps[j].Score {
			return overlaps[i].Score > overlaps[j].Score
		}
		return overlaps[i].Entry.Code < overlaps[j].Entry.Code
	})
	return overlaps
}

// Get returns the entry for a code.
func (x *Index) Get(code string) (*domain.CodeEntry, error) {
	id, ok := x.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCodeNotFound, code)
	}
	return &x.entries[id], nil
}

// TermsFor returns a code's distinct description terms in
// first-appearance order, or nil for an unknown code. The returned
// slice is shared and must not be modified.
func (x *Index) TermsFor(code string) []string {
	id, ok := x.byCode[code]
	if !ok {
		return nil
	}
	return x.entryTerms[id]
}

// Len returns the number of indexed entries.
func (x *Index) Len() int { return len(x.entries) }

// TermCount returns the number of distinct indexed terms.
func (x *Index) TermCount() int { return len(x.postings) }
