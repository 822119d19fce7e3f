package domain

import "time"

// Candidate is one proposed code assignment: a code from the corpus, the
// span of source text that produced it, a score in [0,1], and the
// matched terms that justify it.
type Candidate struct {
	Code  string `json:"code"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	// Score is the match confidence in [0,1].
	Score float64 `json:"score"`

	// Evidence lists the normalized terms that matched the entry's
	// description, in window order.
	Evidence []string `json:"evidence"`
}

// SpanLen returns the candidate span length in bytes.
func (c Candidate) SpanLen() int {
	return c.End - c.Start
}

// Overlaps reports whether the spans of c and other share any bytes.
func (c Candidate) Overlaps(other Candidate) bool {
	return c.Start < other.End && other.Start < c.End
}

// ContainedIn reports whether c's span lies fully within other's span.
func (c Candidate) ContainedIn(other Candidate) bool {
	return c.Start >= other.Start && c.End <= other.End
}

// ExtractionResult is the final output for one document: candidates
// sorted score descending, then span start ascending, then span length
// descending, then code ascending. Immutable once returned.
type ExtractionResult struct {
	DocumentID      string      `json:"document_id"`
	Candidates      []Candidate `json:"candidates"`
	TokensProcessed int         `json:"tokens_processed"`
	ExtractedAt     time.Time   `json:"extracted_at"`
}
