// Package normalizer tokenizes operative-report text for matching.
//
// Tokens are segmented from the ORIGINAL text so their byte offsets are
// exact; only the normal form of each token is Unicode-normalized and
// case-folded. Abbreviation expansion inserts synthetic tokens that
// share the abbreviation's offsets, preserving provenance.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Normalizer = (*Normalizer)(nil)

// Normalizer tokenizes and normalizes raw text. Stateless per call and
// safe for concurrent use once constructed.
type Normalizer struct {
	// abbreviations maps a normalized abbreviation to its expansion
	// words, already normalized.
	abbreviations map[string][]string
}

// New creates a Normalizer with the given abbreviation-expansion table.
// Keys and values are normalized on construction; a nil map disables
// expansion.
func New(abbreviations map[string]string) *Normalizer {
	n := &Normalizer{
		abbreviations: make(map[string][]string, len(abbreviations)),
	}
	for abbr, expansion := range abbreviations {
		key := n.normalForm(abbr)
		if key == "" {
			continue
		}
		var words []string
		for _, w := range strings.Fields(expansion) {
			if nf := n.normalForm(w); nf != "" {
				words = append(words, nf)
			}
		}
		if len(words) > 0 {
			n.abbreviations[key] = words
		}
	}
	return n
}

// Normalize tokenizes raw and returns the normalized token sequence.
// Empty input yields an empty sequence, never an error. Idempotent:
// re-normalizing the rendered surface forms produces equivalent normal
// forms.
func (n *Normalizer) Normalize(raw string) []domain.NormalizedToken {
	tokens := make([]domain.NormalizedToken, 0, len(raw)/6)

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if !isTokenRune(r) {
			i += size
			continue
		}

		start := i
		end := i
		for end < len(raw) {
			r, size := utf8.DecodeRuneInString(raw[end:])
			if isTokenRune(r) {
				end += size
				continue
			}
			// An interior dot stays inside the token so code literals
			// like K35.80 and decimals survive as single tokens.
			if r == '.' && end+size < len(raw) {
				next, _ := utf8.DecodeRuneInString(raw[end+size:])
				if isTokenRune(next) {
					end += size
					continue
				}
			}
			break
		}

		surface := raw[start:end]
		normal := n.normalForm(surface)
		if normal != "" {
			tokens = append(tokens, domain.NormalizedToken{
				Surface: surface,
				Normal:  normal,
				Start:   start,
				End:     end,
			})
			tokens = append(tokens, n.expand(normal, start, end)...)
		}
		i = end
	}
	return tokens
}

// expand returns synthetic tokens for a known abbreviation. All share
// the abbreviation's source span.
func (n *Normalizer) expand(normal string, start, end int) []domain.NormalizedToken {
	words, ok := n.abbreviations[normal]
	if !ok {
		return nil
	}
	out := make([]domain.NormalizedToken, 0, len(words))
	for _, w := range words {
		if w == normal {
			continue
		}
		out = append(out, domain.NormalizedToken{
			Surface:   w,
			Normal:    w,
			Start:     start,
			End:       end,
			Synthetic: true,
		})
	}
	return out
}

// normalForm applies NFKC normalization and Unicode case folding. A
// fresh Caser per call because Casers are not safe for concurrent use.
func (n *Normalizer) normalForm(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Render joins token surface forms with single spaces, the inverse-ish
// of Normalize used by idempotency checks and diagnostics. Synthetic
// tokens are skipped so a render/normalize round trip is stable.
func Render(tokens []domain.NormalizedToken) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Synthetic {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Surface)
	}
	return b.String()
}
