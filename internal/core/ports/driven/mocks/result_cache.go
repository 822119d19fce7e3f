package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// MockResultCache is an in-memory ResultCache for testing. TTLs are
// recorded but never enforced.
type MockResultCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.ExtractionResult
	TTLs    map[string]time.Duration
	GetErr  error
	SetErr  error

	Hits   int
	Misses int
}

// NewMockResultCache creates a new MockResultCache
func NewMockResultCache() *MockResultCache {
	return &MockResultCache{
		entries: make(map[string]*domain.ExtractionResult),
		TTLs:    make(map[string]time.Duration),
	}
}

func (m *MockResultCache) Get(_ context.Context, key string) (*domain.ExtractionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if result, ok := m.entries[key]; ok {
		m.Hits++
		return result, nil
	}
	m.Misses++
	return nil, nil
}

func (m *MockResultCache) Set(_ context.Context, key string, result *domain.ExtractionResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = result
	m.TTLs[key] = ttl
	return nil
}

// Len returns the number of cached entries.
func (m *MockResultCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
