package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
	"github.com/clinicode-labs/clinicode-core/internal/matcher"
	"github.com/clinicode-labs/clinicode-core/internal/ranker"
	"github.com/clinicode-labs/clinicode-core/internal/runtime"
)

// Ensure extractionService implements ExtractionService
var _ driving.ExtractionService = (*extractionService)(nil)

type extractionService struct {
	registry *runtime.Registry
	cache    driven.ResultCache // optional
	store    driven.ResultStore // optional
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewExtractionService creates an ExtractionService. cache and store
// may be nil; both are best-effort side channels - their failures are
// logged, never surfaced as extraction errors.
func NewExtractionService(
	registry *runtime.Registry,
	cache driven.ResultCache,
	store driven.ResultStore,
	cacheTTL time.Duration,
	logger *slog.Logger,
) driving.ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &extractionService{
		registry: registry,
		cache:    cache,
		store:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Extract runs one document through normalize -> match -> rank. It
// returns a complete result or an error, never both; a document with no
// matching terminology yields a result with zero candidates.
func (s *extractionService) Extract(ctx context.Context, documentID, text string, opts domain.MatchOptions) (*domain.ExtractionResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, &domain.ExtractionError{DocumentID: documentID, Stage: "options", Err: err}
	}

	snap := s.registry.Current()
	if snap == nil {
		return nil, &domain.ExtractionError{DocumentID: documentID, Stage: "match", Err: domain.ErrEmptyIndex}
	}

	key := cacheKey(documentID, text, opts)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, &domain.ExtractionError{DocumentID: documentID, Stage: "normalize", Err: err}
	}
	tokens := snap.Normalizer.Normalize(text)

	candidates, err := matcher.New(opts).Match(tokens, snap.Index)
	if err != nil {
		return nil, &domain.ExtractionError{DocumentID: documentID, Stage: "match", Err: err}
	}

	result := ranker.Rank(documentID, len(tokens), candidates, opts.DominanceRatio)

	if s.store != nil {
		if err := s.store.Save(ctx, &result); err != nil {
			s.logger.Warn("result store save failed", "document_id", documentID, "error", err)
		}
	}
	s.cacheSet(ctx, key, &result)

	s.logger.Debug("document extracted",
		"document_id", documentID,
		"tokens", result.TokensProcessed,
		"candidates", len(result.Candidates))
	return &result, nil
}

func (s *extractionService) cacheGet(ctx context.Context, key string) *domain.ExtractionResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("result cache get failed", "error", err)
		return nil
	}
	return cached
}

func (s *extractionService) cacheSet(ctx context.Context, key string, result *domain.ExtractionResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("result cache set failed", "error", err)
	}
}

// cacheKey digests everything that determines an extraction's output.
// The corpus generation is deliberately absent; a reload is expected to
// outlive cache TTLs, and stale entries only shortcut identical input.
func cacheKey(documentID, text string, opts domain.MatchOptions) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%g\x00%g", documentID, text, opts.Window, opts.MinOverlap, opts.DominanceRatio)
	return "extract:" + hex.EncodeToString(h.Sum(nil))
}
