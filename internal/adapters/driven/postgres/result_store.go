package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore persists extraction results using PostgreSQL. Candidates
// are stored as a jsonb document per result row; results are
// append-only.
type ResultStore struct {
	db *DB
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db}
}

// Save stores one result.
func (s *ResultStore) Save(ctx context.Context, result *domain.ExtractionResult) error {
	candidates, err := json.Marshal(result.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extraction_results (document_id, candidates, tokens_processed, extracted_at)
		VALUES ($1, $2, $3, $4)
	`, result.DocumentID, candidates, result.TokensProcessed, result.ExtractedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetLatest returns the most recent result for a document, or nil, nil
// when the document has never been extracted.
func (s *ResultStore) GetLatest(ctx context.Context, documentID string) (*domain.ExtractionResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, candidates, tokens_processed, extracted_at
		FROM extraction_results
		WHERE document_id = $1
		ORDER BY extracted_at DESC
		LIMIT 1
	`, documentID)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return result, err
}

// ListByDocument returns results for a document, newest first.
func (s *ResultStore) ListByDocument(ctx context.Context, documentID string, limit int) ([]*domain.ExtractionResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, candidates, tokens_processed, extracted_at
		FROM extraction_results
		WHERE document_id = $1
		ORDER BY extracted_at DESC
		LIMIT $2
	`, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*domain.ExtractionResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*domain.ExtractionResult, error) {
	var result domain.ExtractionResult
	var candidates []byte

	if err := row.Scan(&result.DocumentID, &candidates, &result.TokensProcessed, &result.ExtractedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(candidates, &result.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return &result, nil
}
