package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrCorpusLoad indicates the corpus source is malformed. Fatal at
	// startup; a partial corpus is never kept.
	ErrCorpusLoad = errors.New("corpus load failed")

	// ErrCodeNotFound indicates a code is absent from the loaded corpus.
	// Post-load this signals an internal consistency bug, since every
	// reference is validated at load time.
	ErrCodeNotFound = errors.New("code not found")

	// ErrEmptyIndex indicates extraction was attempted against an index
	// with zero entries - a misconfiguration, never silently an empty
	// result.
	ErrEmptyIndex = errors.New("corpus index is empty")

	// ErrExtraction indicates a single-document extraction failed.
	ErrExtraction = errors.New("extraction failed")

	// ErrInvalidInput indicates the input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid.
	ErrTokenInvalid = errors.New("token invalid")
)

// CorpusLoadError describes a malformed corpus row. It wraps
// ErrCorpusLoad so callers can test with errors.Is.
type CorpusLoadError struct {
	Code   string // offending code, if known
	Row    int    // 1-based row number, 0 if not row-specific
	Reason string
}

func (e *CorpusLoadError) Error() string {
	switch {
	case e.Code != "" && e.Row > 0:
		return fmt.Sprintf("corpus load failed: row %d (%s): %s", e.Row, e.Code, e.Reason)
	case e.Code != "":
		return fmt.Sprintf("corpus load failed: %s: %s", e.Code, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("corpus load failed: row %d: %s", e.Row, e.Reason)
	default:
		return fmt.Sprintf("corpus load failed: %s", e.Reason)
	}
}

func (e *CorpusLoadError) Unwrap() error { return ErrCorpusLoad }

// ExtractionError wraps the first stage failure of a single document.
// It unwraps to both ErrExtraction and the cause, so
// errors.Is(err, ErrEmptyIndex) holds when the matcher failed that way.
type ExtractionError struct {
	DocumentID string
	Stage      string // "normalize", "match", "rank"
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: document %q: %s: %v", e.DocumentID, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtraction, e.Err} }
