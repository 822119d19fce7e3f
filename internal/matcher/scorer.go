package matcher

// Scorer turns a raw term-overlap score into a final candidate score.
// It is the seam for alternative matching strategies: downstream
// components only see the resulting score in [0,1].
type Scorer interface {
	// Score combines the index overlap with window/description shape.
	// windowTerms are the window's distinct normal forms in order;
	// entryTerms are the entry's description terms in order.
	Score(windowTerms, entryTerms []string, overlap float64) float64
}

// LexicalScorer is the default deterministic lexical strategy: Jaccard
// overlap scaled by a length preference (longer exact phrases beat
// short fragments) and a small bonus when the window's term sequence
// matches the leading description terms exactly.
type LexicalScorer struct{}

const (
	orderBonus = 1.05

	// lengthBase and lengthStep shape the length preference: one-term
	// windows score 0.8x, each extra term adds 0.1x up to 1.0x.
	lengthBase = 0.7
	lengthStep = 0.1
)

func (LexicalScorer) Score(windowTerms, entryTerms []string, overlap float64) float64 {
	if overlap <= 0 {
		return 0
	}

	factor := lengthBase + lengthStep*float64(len(windowTerms))
	if factor > 1 {
		factor = 1
	}

	score := overlap * factor
	if isPrefix(windowTerms, entryTerms) {
		score *= orderBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// isPrefix reports whether window is a non-empty exact prefix of terms.
func isPrefix(window, terms []string) bool {
	if len(window) == 0 || len(window) > len(terms) {
		return false
	}
	for i, w := range window {
		if terms[i] != w {
			return false
		}
	}
	return true
}
