package domain

import "fmt"

// MatchOptions configures one extraction run.
type MatchOptions struct {
	// Window is the maximum number of consecutive tokens considered as
	// one match phrase.
	Window int `json:"window"`

	// MinOverlap is the minimum term-overlap score for a window to
	// produce a candidate.
	MinOverlap float64 `json:"min_overlap"`

	// DominanceRatio controls suppression of short matches contained in
	// a stronger overlapping match for a different code: a contained
	// candidate survives only if its score is at least
	// DominanceRatio * the containing candidate's score.
	DominanceRatio float64 `json:"dominance_ratio"`
}

// DefaultMatchOptions returns sensible defaults.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Window:         6,
		MinOverlap:     0.3,
		DominanceRatio: 0.5,
	}
}

// Normalize fills zero values with defaults and validates ranges.
func (o MatchOptions) Normalize() (MatchOptions, error) {
	def := DefaultMatchOptions()
	if o.Window == 0 {
		o.Window = def.Window
	}
	if o.MinOverlap == 0 {
		o.MinOverlap = def.MinOverlap
	}
	if o.DominanceRatio == 0 {
		o.DominanceRatio = def.DominanceRatio
	}

	if o.Window < 1 {
		return o, fmt.Errorf("%w: window must be >= 1", ErrInvalidInput)
	}
	if o.MinOverlap < 0 || o.MinOverlap > 1 {
		return o, fmt.Errorf("%w: min_overlap must be in [0,1]", ErrInvalidInput)
	}
	if o.DominanceRatio < 0 || o.DominanceRatio > 1 {
		return o, fmt.Errorf("%w: dominance_ratio must be in [0,1]", ErrInvalidInput)
	}
	return o, nil
}
