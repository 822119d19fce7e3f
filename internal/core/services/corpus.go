package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driving"
	"github.com/clinicode-labs/clinicode-core/internal/index"
	"github.com/clinicode-labs/clinicode-core/internal/normalizer"
	"github.com/clinicode-labs/clinicode-core/internal/runtime"
)

// Ensure corpusService implements CorpusService
var _ driving.CorpusService = (*corpusService)(nil)

type corpusService struct {
	source   driven.CorpusSource
	abbrevs  driven.AbbreviationSource // optional
	store    driven.CorpusStore        // optional, load-corpus mode only
	registry *runtime.Registry
	logger   *slog.Logger
}

// NewCorpusService creates a CorpusService. abbrevs and store may be
// nil; a nil abbrevs disables abbreviation expansion and a nil store
// disables Populate.
func NewCorpusService(
	source driven.CorpusSource,
	abbrevs driven.AbbreviationSource,
	store driven.CorpusStore,
	registry *runtime.Registry,
	logger *slog.Logger,
) driving.CorpusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &corpusService{
		source:   source,
		abbrevs:  abbrevs,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// Load reads, validates and indexes the corpus, then swaps the new
// snapshot into the registry. Any malformed row fails the whole load;
// the previous snapshot, if any, stays active on failure.
func (s *corpusService) Load(ctx context.Context) error {
	start := time.Now()

	abbrevs, err := s.loadAbbreviations(ctx)
	if err != nil {
		return fmt.Errorf("abbreviation source: %w", err)
	}
	tok := normalizer.New(abbrevs)

	entries, err := s.source.Load(ctx)
	if err != nil {
		return &domain.CorpusLoadError{Reason: err.Error()}
	}
	if err := validateEntries(entries); err != nil {
		return err
	}

	idx, err := index.Build(entries, tok)
	if err != nil {
		return err
	}

	s.registry.Swap(&runtime.Snapshot{
		Index:      idx,
		Normalizer: tok,
		Source:     s.source.Describe(),
		LoadedAt:   time.Now().UTC(),
	})

	s.logger.Info("corpus loaded",
		"source", s.source.Describe(),
		"entries", idx.Len(),
		"terms", idx.TermCount(),
		"abbreviations", len(abbrevs),
		"took", time.Since(start))
	return nil
}

// Reload re-runs Load. Extractions in flight keep the snapshot they
// started with.
func (s *corpusService) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Get returns the entry for a code from the active snapshot.
func (s *corpusService) Get(_ context.Context, code string) (*domain.CodeEntry, error) {
	snap := s.registry.Current()
	if snap == nil {
		return nil, domain.ErrEmptyIndex
	}
	return snap.Index.Get(code)
}

// Status reports on the active snapshot.
func (s *corpusService) Status() domain.CorpusStatus {
	snap := s.registry.Current()
	if snap == nil {
		return domain.CorpusStatus{}
	}
	return domain.CorpusStatus{
		Loaded:   true,
		Entries:  snap.Index.Len(),
		Terms:    snap.Index.TermCount(),
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
	}
}

// Populate copies the validated corpus from the configured source into
// the database store (load-corpus run mode).
func (s *corpusService) Populate(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("%w: no corpus store configured", domain.ErrInvalidInput)
	}

	entries, err := s.source.Load(ctx)
	if err != nil {
		return &domain.CorpusLoadError{Reason: err.Error()}
	}
	if err := validateEntries(entries); err != nil {
		return err
	}

	if err := s.store.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("corpus store upsert: %w", err)
	}
	s.logger.Info("corpus populated",
		"source", s.source.Describe(),
		"store", s.store.Describe(),
		"entries", len(entries))
	return nil
}

func (s *corpusService) loadAbbreviations(ctx context.Context) (map[string]string, error) {
	if s.abbrevs == nil {
		return nil, nil
	}
	return s.abbrevs.Load(ctx)
}

// validateEntries enforces the corpus invariants that make post-load
// lookups infallible: unique well-formed codes, required descriptions,
// resolvable parents and an acyclic (forest) hierarchy.
func validateEntries(entries []domain.CodeEntry) error {
	byCode := make(map[string]*domain.CodeEntry, len(entries))

	for i, e := range entries {
		row := i + 1
		if e.Code == "" {
			return &domain.CorpusLoadError{Row: row, Reason: "missing code"}
		}
		if !domain.ValidCode(e.Code) {
			return &domain.CorpusLoadError{Code: e.Code, Row: row, Reason: "malformed code"}
		}
		if e.ShortDescription == "" {
			return &domain.CorpusLoadError{Code: e.Code, Row: row, Reason: "missing short description"}
		}
		if _, dup := byCode[e.Code]; dup {
			return &domain.CorpusLoadError{Code: e.Code, Row: row, Reason: "duplicate code"}
		}
		byCode[e.Code] = &entries[i]
	}

	// Parents must resolve, and following them must terminate: the
	// hierarchy is a forest, not a graph.
	safe := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := walkParents(e.Code, byCode, safe); err != nil {
			return err
		}
	}
	return nil
}

func walkParents(code string, byCode map[string]*domain.CodeEntry, safe map[string]bool) error {
	onPath := make(map[string]bool)
	for cur := code; cur != ""; {
		if safe[cur] {
			return nil
		}
		if onPath[cur] {
			return &domain.CorpusLoadError{Code: cur, Reason: "cyclic parent reference"}
		}
		onPath[cur] = true

		entry := byCode[cur]
		if entry.ParentCode == "" {
			break
		}
		if _, ok := byCode[entry.ParentCode]; !ok {
			return &domain.CorpusLoadError{Code: cur, Reason: "unknown parent code " + entry.ParentCode}
		}
		cur = entry.ParentCode
	}
	for c := range onPath {
		safe[c] = true
	}
	return nil
}
