package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore reads and writes the ICD-10-CM code table in PostgreSQL.
type CorpusStore struct {
	db *DB
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db}
}

// Load reads all corpus entries ordered by code.
func (s *CorpusStore) Load(ctx context.Context) ([]domain.CodeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, short_description, long_description, parent_code
		FROM icd10_codes
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	var entries []domain.CodeEntry
	for rows.Next() {
		var e domain.CodeEntry
		var parent sql.NullString
		if err := rows.Scan(&e.Code, &e.ShortDescription, &e.LongDescription, &parent); err != nil {
			return nil, fmt.Errorf("scan corpus row: %w", err)
		}
		e.ParentCode = parent.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corpus rows: %w", err)
	}
	return entries, nil
}

// Upsert inserts or updates entries in a single transaction. Either the
// whole batch lands or none of it does.
func (s *CorpusStore) Upsert(ctx context.Context, entries []domain.CodeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO icd10_codes (code, short_description, long_description, parent_code, updated_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (code) DO UPDATE SET
				short_description = EXCLUDED.short_description,
				long_description = EXCLUDED.long_description,
				parent_code = EXCLUDED.parent_code,
				updated_at = now()
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.Code, e.ShortDescription, e.LongDescription, NullString(e.ParentCode)); err != nil {
				return fmt.Errorf("upsert %s: %w", e.Code, err)
			}
		}
		return nil
	})
}

// Describe returns the store location for logging.
func (s *CorpusStore) Describe() string {
	return "postgres:icd10_codes"
}
