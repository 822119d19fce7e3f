// Package ranker turns raw matcher candidates into the final,
// deterministic extraction result: canonical ordering, same-code span
// merging and dominance suppression of weak contained matches.
package ranker

import (
	"sort"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// Rank assembles the final result for one document. Steps, in order:
//
//  1. canonical sort: score desc, span start asc, span length desc,
//     code asc (the last key makes ties fully deterministic);
//  2. merge candidates with identical code and overlapping spans,
//     keeping the highest-scoring one and unioning evidence;
//  3. suppress a candidate fully contained in a higher-scoring
//     candidate's span for a DIFFERENT code when its score falls below
//     dominanceRatio times the container's score.
//
// The result is deterministic for any permutation of the input and
// immutable once returned.
func Rank(documentID string, tokensProcessed int, candidates []domain.Candidate, dominanceRatio float64) domain.ExtractionResult {
	ordered := make([]domain.Candidate, len(candidates))
	copy(ordered, candidates)
	sortCanonical(ordered)

	merged := mergeSameCode(ordered)
	kept := suppressDominated(merged, dominanceRatio)

	return domain.ExtractionResult{
		DocumentID:      documentID,
		Candidates:      kept,
		TokensProcessed: tokensProcessed,
		ExtractedAt:     time.Now().UTC(),
	}
}

func sortCanonical(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.SpanLen() != b.SpanLen() {
			return a.SpanLen() > b.SpanLen()
		}
		return a.Code < b.Code
	})
}

// mergeSameCode collapses overlapping spans of the same code into the
// highest-scoring candidate, unioning evidence in order. Input must be
// canonically sorted; output stays sorted because merging never alters
// a kept candidate's score or span.
func mergeSameCode(cands []domain.Candidate) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		mergedInto := -1
		for k := range kept {
			if kept[k].Code == c.Code && kept[k].Overlaps(c) {
				mergedInto = k
				break
			}
		}
		if mergedInto >= 0 {
			kept[mergedInto].Evidence = unionEvidence(kept[mergedInto].Evidence, c.Evidence)
			continue
		}
		c.Evidence = unionEvidence(nil, c.Evidence)
		kept = append(kept, c)
	}
	return kept
}

// suppressDominated drops candidates explained away by a stronger
// overlapping match for a different code. Input must be sorted, so any
// potential container precedes its contained candidates.
func suppressDominated(cands []domain.Candidate, ratio float64) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		dominated := false
		for _, k := range kept {
			if k.Code != c.Code && c.ContainedIn(k) && c.Score < ratio*k.Score {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}
	return kept
}

// unionEvidence appends terms from extra not already present, keeping
// first-appearance order.
func unionEvidence(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, lists := range [][]string{base, extra} {
		for _, t := range lists {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
