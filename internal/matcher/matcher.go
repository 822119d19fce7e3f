// Package matcher produces scored code candidates from normalized
// report text by sliding term windows over the corpus index.
package matcher

import (
	"fmt"
	"strings"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Matcher slides windows of up to Window consecutive tokens over the
// token sequence and queries the index with each window's term set.
// Matchers are cheap to construct and hold no state across calls.
type Matcher struct {
	opts   domain.MatchOptions
	scorer Scorer
}

// New creates a Matcher with the given options and the default lexical
// scorer. Options are assumed normalized by the caller.
func New(opts domain.MatchOptions) *Matcher {
	return NewWithScorer(opts, LexicalScorer{})
}

// NewWithScorer creates a Matcher with a custom scoring strategy.
func NewWithScorer(opts domain.MatchOptions, scorer Scorer) *Matcher {
	return &Matcher{opts: opts, scorer: scorer}
}

type spanKey struct {
	code       string
	start, end int
}

// Match emits one candidate per (entry, span) whose score clears the
// overlap threshold, plus full-confidence candidates for verbatim code
// literals present in the corpus. Fails with domain.ErrEmptyIndex when
// the index holds no entries - a misconfigured dependency is never
// reported as "no candidates".
func (m *Matcher) Match(tokens []domain.NormalizedToken, idx driven.CorpusIndex) ([]domain.Candidate, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, fmt.Errorf("%w: cannot match", domain.ErrEmptyIndex)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	best := make(map[spanKey]*domain.Candidate)

	for i := range tokens {
		// Normal forms are precomputed on the tokens; widening the
		// window only appends one term, so the term list is built
		// incrementally rather than re-derived per window.
		var windowTerms []string
		seen := make(map[string]struct{}, m.opts.Window)

		for w := 1; w <= m.opts.Window && i+w <= len(tokens); w++ {
			tok := tokens[i+w-1]
			if _, dup := seen[tok.Normal]; !dup {
				seen[tok.Normal] = struct{}{}
				windowTerms = append(windowTerms, tok.Normal)
			}

			start, end := spanOf(tokens[i : i+w])
			for _, hit := range idx.LookupByTerms(windowTerms) {
				// Hits arrive sorted by overlap descending; the
				// threshold applies to the raw overlap, before the
				// scorer shapes it.
				if hit.Score < m.opts.MinOverlap {
					break
				}
				entryTerms := idx.TermsFor(hit.Entry.Code)
				score := m.scorer.Score(windowTerms, entryTerms, hit.Score)
				keep(best, domain.Candidate{
					Code:     hit.Entry.Code,
					Start:    start,
					End:      end,
					Score:    score,
					Evidence: matchedTerms(windowTerms, entryTerms),
				})
			}
		}
	}

	m.matchCodeLiterals(tokens, idx, best)

	out := make([]domain.Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, *c)
	}
	return out, nil
}

// matchCodeLiterals emits a score-1.0 candidate for every token that is
// a verbatim ICD-10-CM code present in the index, mirroring how coders
// validate codes already written into a report.
func (m *Matcher) matchCodeLiterals(tokens []domain.NormalizedToken, idx driven.CorpusIndex, best map[spanKey]*domain.Candidate) {
	for _, tok := range tokens {
		if tok.Synthetic {
			continue
		}
		literal := strings.ToUpper(tok.Surface)
		if !domain.CodeLiteral(literal) {
			continue
		}
		entry, err := idx.Get(literal)
		if err != nil {
			continue
		}
		keep(best, domain.Candidate{
			Code:     entry.Code,
			Start:    tok.Start,
			End:      tok.End,
			Score:    1.0,
			Evidence: []string{literal},
		})
	}
}

// keep retains the best-scoring candidate per (code, span).
func keep(best map[spanKey]*domain.Candidate, c domain.Candidate) {
	k := spanKey{code: c.Code, start: c.Start, end: c.End}
	if prev, ok := best[k]; ok && prev.Score >= c.Score {
		return
	}
	best[k] = &c
}

// spanOf returns the union of the window's token offsets. Synthetic
// tokens share their abbreviation's span, so min/max rather than
// first/last.
func spanOf(window []domain.NormalizedToken) (int, int) {
	start, end := window[0].Start, window[0].End
	for _, t := range window[1:] {
		if t.Start < start {
			start = t.Start
		}
		if t.End > end {
			end = t.End
		}
	}
	return start, end
}

// matchedTerms returns the window terms present in the entry's term
// list, in window order.
func matchedTerms(windowTerms, entryTerms []string) []string {
	var out []string
	for _, w := range windowTerms {
		for _, e := range entryTerms {
			if w == e {
				out = append(out, w)
				break
			}
		}
	}
	return out
}
