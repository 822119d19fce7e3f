// Package file provides corpus and abbreviation sources backed by
// local tabular files, the format the CMS code table ships in.
package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusSource = (*CorpusSource)(nil)

// CorpusSource reads the ICD-10-CM code table from a delimited file.
// The delimiter follows the extension: tab for .tsv/.txt, comma
// otherwise. The first row must be the header
// "code, short_description, long_description, parent_code".
type CorpusSource struct {
	path string
}

// NewCorpusSource creates a CorpusSource for the given path.
func NewCorpusSource(path string) *CorpusSource {
	return &CorpusSource{path: path}
}

var corpusHeader = []string{"code", "short_description", "long_description", "parent_code"}

// Load reads and parses the whole file. Any malformed row fails the
// load; there is no partial corpus.
func (s *CorpusSource) Load(ctx context.Context) ([]domain.CodeEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiterFor(s.path)
	r.FieldsPerRecord = -1 // length checked per row for better errors
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("corpus file %s is empty", s.path)
	}

	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	entries := make([]domain.CodeEntry, 0, len(records)-1)
	for i, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i + 2 // 1-based, after header
		if len(rec) < 3 || len(rec) > 4 {
			return nil, fmt.Errorf("corpus file row %d: expected 3-4 fields, got %d", row, len(rec))
		}
		e := domain.CodeEntry{
			Code:             strings.TrimSpace(rec[0]),
			ShortDescription: strings.TrimSpace(rec[1]),
			LongDescription:  strings.TrimSpace(rec[2]),
		}
		if len(rec) == 4 {
			e.ParentCode = strings.TrimSpace(rec[3])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Describe returns the source location for logging.
func (s *CorpusSource) Describe() string {
	return "file:" + s.path
}

func checkHeader(header []string) error {
	if len(header) < 3 {
		return fmt.Errorf("corpus file header: expected %v, got %v", corpusHeader, header)
	}
	for i, want := range corpusHeader[:min(len(header), len(corpusHeader))] {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("corpus file header: column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}

func delimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		return '\t'
	default:
		return ','
	}
}
