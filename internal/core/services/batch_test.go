package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// stubExtractor fails any document whose text contains "fail" and
// records its peak concurrency.
type stubExtractor struct {
	mu      sync.Mutex
	active  int
	peak    int
	started chan struct{}
	block   chan struct{}
}

func (s *stubExtractor) Extract(ctx context.Context, documentID, text string, _ domain.MatchOptions) (*domain.ExtractionResult, error) {
	s.mu.Lock()
	s.active++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if s.started != nil {
		s.started <- struct{}{}
		<-s.block
	}
	if strings.Contains(text, "fail") {
		return nil, &domain.ExtractionError{DocumentID: documentID, Stage: "match", Err: domain.ErrEmptyIndex}
	}
	return &domain.ExtractionResult{DocumentID: documentID}, nil
}

func TestExtractBatch_PreservesInputOrder(t *testing.T) {
	svc := NewBatchService(&stubExtractor{}, 3, testLogger())

	docs := make([]domain.BatchDocument, 20)
	for i := range docs {
		docs[i] = domain.BatchDocument{ID: fmt.Sprintf("doc-%02d", i), Text: "acute appendicitis"}
	}

	results, err := svc.ExtractBatch(context.Background(), docs, domain.MatchOptions{})
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	for i, r := range results {
		assert.Equal(t, docs[i].ID, r.DocumentID)
		require.NoError(t, r.Err)
		assert.Equal(t, docs[i].ID, r.Result.DocumentID)
	}
}

func TestExtractBatch_IsolatesFailures(t *testing.T) {
	svc := NewBatchService(&stubExtractor{}, 2, testLogger())

	docs := []domain.BatchDocument{
		{ID: "doc-1", Text: "acute appendicitis"},
		{ID: "doc-2", Text: "please fail"},
		{ID: "doc-3", Text: "acute appendicitis"},
	}

	results, err := svc.ExtractBatch(context.Background(), docs, domain.MatchOptions{})
	require.NoError(t, err, "a failing document must not fail the batch")
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Result)
	assert.NoError(t, results[0].Err)

	assert.Nil(t, results[1].Result)
	assert.ErrorIs(t, results[1].Err, domain.ErrExtraction)

	assert.NotNil(t, results[2].Result)
	assert.NoError(t, results[2].Err)
}

func TestExtractBatch_RespectsConcurrencyLimit(t *testing.T) {
	stub := &stubExtractor{
		started: make(chan struct{}, 8),
		block:   make(chan struct{}),
	}
	svc := NewBatchService(stub, 2, testLogger())

	docs := make([]domain.BatchDocument, 6)
	for i := range docs {
		docs[i] = domain.BatchDocument{ID: fmt.Sprintf("doc-%d", i), Text: "text"}
	}

	done := make(chan struct{})
	go func() {
		_, _ = svc.ExtractBatch(context.Background(), docs, domain.MatchOptions{})
		close(done)
	}()

	// Exactly two extractions may run at once.
	<-stub.started
	<-stub.started
	close(stub.block)
	<-done

	assert.LessOrEqual(t, stub.peak, 2)
}

func TestExtractBatch_CancelledContext(t *testing.T) {
	svc := NewBatchService(&stubExtractor{}, 2, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ExtractBatch(ctx, []domain.BatchDocument{{ID: "doc-1", Text: "x"}}, domain.MatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractBatch_Empty(t *testing.T) {
	svc := NewBatchService(&stubExtractor{}, 2, testLogger())

	results, err := svc.ExtractBatch(context.Background(), nil, domain.MatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}
