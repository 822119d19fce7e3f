package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
)

// Ensure batchService implements BatchService
var _ driving.BatchService = (*batchService)(nil)

type batchService struct {
	extractor   driving.ExtractionService
	concurrency int
	logger      *slog.Logger
}

// NewBatchService creates a BatchService that fans documents out over
// at most concurrency extraction goroutines. Sessions share only the
// read-only corpus snapshot, so no locking is involved.
func NewBatchService(extractor driving.ExtractionService, concurrency int, logger *slog.Logger) driving.BatchService {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &batchService{
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ExtractBatch processes docs concurrently and returns one result per
// document in input order. A failing document carries its error in its
// BatchResult and never stops the rest; only context cancellation
// aborts the batch.
func (s *batchService) ExtractBatch(ctx context.Context, docs []domain.BatchDocument, opts domain.MatchOptions) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.extractor.Extract(gctx, doc.ID, doc.Text, opts)
			if err != nil {
				s.logger.Warn("batch document failed", "document_id", doc.ID, "error", err)
			}
			results[i] = domain.BatchResult{DocumentID: doc.ID, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
