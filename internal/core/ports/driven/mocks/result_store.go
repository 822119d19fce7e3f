package mocks

import (
	"context"
	"sync"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// MockResultStore is an in-memory ResultStore for testing
type MockResultStore struct {
	mu      sync.RWMutex
	results map[string][]*domain.ExtractionResult
	SaveErr error
}

// NewMockResultStore creates a new MockResultStore
func NewMockResultStore() *MockResultStore {
	return &MockResultStore{
		results: make(map[string][]*domain.ExtractionResult),
	}
}

func (m *MockResultStore) Save(_ context.Context, result *domain.ExtractionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	// newest first
	m.results[result.DocumentID] = append([]*domain.ExtractionResult{result}, m.results[result.DocumentID]...)
	return nil
}

func (m *MockResultStore) GetLatest(_ context.Context, documentID string) (*domain.ExtractionResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.results[documentID]
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (m *MockResultStore) ListByDocument(_ context.Context, documentID string, limit int) ([]*domain.ExtractionResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.results[documentID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]*domain.ExtractionResult, len(list))
	copy(out, list)
	return out, nil
}

// Count returns the number of saved results across all documents.
func (m *MockResultStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, list := range m.results {
		n += len(list)
	}
	return n
}
