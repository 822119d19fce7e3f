package ranker

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

func TestRank_CanonicalOrder(t *testing.T) {
	cands := []domain.Candidate{
		{Code: "B01.9", Start: 10, End: 20, Score: 0.5},
		{Code: "A01.0", Start: 0, End: 30, Score: 0.9},
		{Code: "C01", Start: 10, End: 25, Score: 0.5},
		{Code: "D01.1", Start: 10, End: 25, Score: 0.5},
	}

	result := Rank("doc-1", 10, cands, 0)

	got := make([]string, len(result.Candidates))
	for i, c := range result.Candidates {
		got[i] = c.Code
	}
	// score desc, then start asc, then span length desc, then code asc
	want := []string{"A01.0", "C01", "D01.1", "B01.9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestRank_DeterministicUnderPermutation(t *testing.T) {
	cands := []domain.Candidate{
		{Code: "K35.80", Start: 35, End: 53, Score: 0.6, Evidence: []string{"acute", "appendicitis"}},
		{Code: "K35.9", Start: 35, End: 53, Score: 0.63, Evidence: []string{"acute", "appendicitis"}},
		{Code: "K35.80", Start: 31, End: 53, Score: 0.5, Evidence: []string{"acute", "appendicitis"}},
		{Code: "M17.0", Start: 0, End: 12, Score: 0.4, Evidence: []string{"knee"}},
		{Code: "K35.9", Start: 41, End: 53, Score: 0.27, Evidence: []string{"appendicitis"}},
	}

	baseline := Rank("doc-1", 20, cands, 0.5)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.Candidate, len(cands))
		copy(shuffled, cands)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		result := Rank("doc-1", 20, shuffled, 0.5)
		if !reflect.DeepEqual(result.Candidates, baseline.Candidates) {
			t.Fatalf("permutation %d produced different output:\n%+v\nvs\n%+v", i, result.Candidates, baseline.Candidates)
		}
	}
}

func TestRank_MergesSameCodeOverlappingSpans(t *testing.T) {
	cands := []domain.Candidate{
		{Code: "K35.80", Start: 35, End: 53, Score: 0.6, Evidence: []string{"acute", "appendicitis"}},
		{Code: "K35.80", Start: 31, End: 53, Score: 0.5, Evidence: []string{"acute", "appendicitis", "unspecified"}},
		{Code: "K35.80", Start: 41, End: 53, Score: 0.27, Evidence: []string{"appendicitis"}},
	}

	result := Rank("doc-1", 10, cands, 0.5)
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 merged candidate, got %d", len(result.Candidates))
	}

	merged := result.Candidates[0]
	if merged.Score != 0.6 || merged.Start != 35 || merged.End != 53 {
		t.Errorf("expected the highest-scoring candidate to survive, got %+v", merged)
	}
	want := []string{"acute", "appendicitis", "unspecified"}
	if !reflect.DeepEqual(merged.Evidence, want) {
		t.Errorf("expected unioned evidence %v, got %v", want, merged.Evidence)
	}
}

func TestRank_DedupInvariant(t *testing.T) {
	// Many same-code candidates with tangled overlaps must collapse so
	// that no two final candidates share a code and overlapping spans.
	cands := []domain.Candidate{
		{Code: "K35.9", Start: 0, End: 10, Score: 0.9},
		{Code: "K35.9", Start: 5, End: 15, Score: 0.8},
		{Code: "K35.9", Start: 20, End: 30, Score: 0.7},
		{Code: "K35.9", Start: 12, End: 22, Score: 0.6},
		{Code: "M17.0", Start: 0, End: 10, Score: 0.85},
	}

	result := Rank("doc-1", 10, cands, 0)

	for i, a := range result.Candidates {
		for _, b := range result.Candidates[i+1:] {
			if a.Code == b.Code && a.Overlaps(b) {
				t.Errorf("final result contains same-code overlapping candidates: %+v and %+v", a, b)
			}
		}
	}
}

func TestRank_DominanceSuppression(t *testing.T) {
	container := domain.Candidate{Code: "K35.9", Start: 0, End: 30, Score: 0.9}

	// Weak contained match for a different code: suppressed.
	weak := domain.Candidate{Code: "M17.0", Start: 5, End: 15, Score: 0.3}
	result := Rank("doc-1", 10, []domain.Candidate{container, weak}, 0.5)
	if len(result.Candidates) != 1 {
		t.Fatalf("expected weak contained candidate suppressed, got %+v", result.Candidates)
	}
	if result.Candidates[0].Code != "K35.9" {
		t.Errorf("expected K35.9 to survive, got %s", result.Candidates[0].Code)
	}

	// Strong contained match survives the dominance threshold.
	strong := domain.Candidate{Code: "M17.0", Start: 5, End: 15, Score: 0.6}
	result = Rank("doc-1", 10, []domain.Candidate{container, strong}, 0.5)
	if len(result.Candidates) != 2 {
		t.Fatalf("expected strong contained candidate kept, got %+v", result.Candidates)
	}

	// Overlapping but not contained: never suppressed.
	straddling := domain.Candidate{Code: "M17.0", Start: 25, End: 40, Score: 0.3}
	result = Rank("doc-1", 10, []domain.Candidate{container, straddling}, 0.5)
	if len(result.Candidates) != 2 {
		t.Fatalf("expected straddling candidate kept, got %+v", result.Candidates)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	result := Rank("doc-1", 0, nil, 0.5)
	if result.DocumentID != "doc-1" {
		t.Errorf("expected document id carried through, got %q", result.DocumentID)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(result.Candidates))
	}
}
