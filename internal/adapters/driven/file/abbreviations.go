package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AbbreviationSource = (*AbbreviationSource)(nil)

// AbbreviationSource reads an abbreviation-expansion table from a plain
// text file: one "abbreviation<TAB>expansion" pair per line, blank
// lines and #-comments ignored.
type AbbreviationSource struct {
	path string
}

// NewAbbreviationSource creates an AbbreviationSource for the given path.
func NewAbbreviationSource(path string) *AbbreviationSource {
	return &AbbreviationSource{path: path}
}

// Load parses the whole file. Duplicate abbreviations are an error, not
// a silent overwrite.
func (s *AbbreviationSource) Load(ctx context.Context) (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open abbreviation file: %w", err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		abbr, expansion, found := strings.Cut(text, "\t")
		if !found {
			return nil, fmt.Errorf("abbreviation file line %d: expected tab-separated pair", line)
		}
		abbr = strings.ToLower(strings.TrimSpace(abbr))
		expansion = strings.TrimSpace(expansion)
		if abbr == "" || expansion == "" {
			return nil, fmt.Errorf("abbreviation file line %d: empty abbreviation or expansion", line)
		}
		if _, dup := out[abbr]; dup {
			return nil, fmt.Errorf("abbreviation file line %d: duplicate abbreviation %q", line, abbr)
		}
		out[abbr] = expansion
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read abbreviation file: %w", err)
	}
	return out, nil
}
