package domain

import "regexp"

// codePattern matches a well-formed ICD-10-CM code: a chapter letter,
// two digits, and an optional subcategory of up to four alphanumerics.
var codePattern = regexp.MustCompile(`^[A-Z][0-9]{2}(\.[0-9A-Z]{1,4})?$`)

// codeLiteralPattern matches an ICD-10-CM code literal embedded in free
// text. U is reserved by the coding system and excluded from the chapter
// letter position.
var codeLiteralPattern = regexp.MustCompile(`^[A-TV-Z][0-9][A-Z0-9](\.[A-Z0-9]{1,4})?$`)

// CodeEntry is one row of the ICD-10-CM corpus. Entries are loaded once
// at startup and never mutated afterwards; parent links are stored as
// code strings rather than pointers so the hierarchy forms a forest of
// values that can be shared freely across goroutines.
type CodeEntry struct {
	Code             string `json:"code"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`

	// ParentCode is the code of the parent entry, or empty for roots.
	ParentCode string `json:"parent_code,omitempty"`
}

// ValidCode reports whether s is a well-formed ICD-10-CM code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// CodeLiteral reports whether s looks like an ICD-10-CM code literal as
// it would appear verbatim in report text (e.g. "K35.80").
func CodeLiteral(s string) bool {
	return codeLiteralPattern.MatchString(s)
}
