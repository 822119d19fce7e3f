package domain

// NormalizedToken is one token of a normalized document. Start and End
// are byte offsets into the ORIGINAL input text, never into the
// normalized rendering, so every downstream span can be traced back to
// the exact source characters.
type NormalizedToken struct {
	// Surface is the token as it appears in the source text.
	Surface string `json:"surface"`

	// Normal is the normalized form used for matching (NFKC, case-folded).
	Normal string `json:"normal"`

	Start int `json:"start"`
	End   int `json:"end"`

	// Synthetic marks tokens inserted by abbreviation expansion. A
	// synthetic token shares the offsets of the abbreviation it was
	// expanded from.
	Synthetic bool `json:"synthetic,omitempty"`
}
