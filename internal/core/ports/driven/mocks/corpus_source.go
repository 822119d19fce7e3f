package mocks

import (
	"context"
	"sync"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// MockCorpusSource is a mock implementation of CorpusSource for testing
type MockCorpusSource struct {
	mu      sync.Mutex
	Entries []domain.CodeEntry
	Err     error

	LoadCalls int
}

// NewMockCorpusSource creates a source returning the given entries.
func NewMockCorpusSource(entries ...domain.CodeEntry) *MockCorpusSource {
	return &MockCorpusSource{Entries: entries}
}

func (m *MockCorpusSource) Load(_ context.Context) ([]domain.CodeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.CodeEntry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

func (m *MockCorpusSource) Describe() string {
	return "mock"
}

// MockCorpusStore extends MockCorpusSource with an Upsert recorder.
type MockCorpusStore struct {
	MockCorpusSource
	Upserted  []domain.CodeEntry
	UpsertErr error
}

func NewMockCorpusStore(entries ...domain.CodeEntry) *MockCorpusStore {
	return &MockCorpusStore{MockCorpusSource: MockCorpusSource{Entries: entries}}
}

func (m *MockCorpusStore) Upsert(_ context.Context, entries []domain.CodeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Upserted = append(m.Upserted, entries...)
	return nil
}

// MockAbbreviationSource is a mock implementation of AbbreviationSource
type MockAbbreviationSource struct {
	Abbreviations map[string]string
	Err           error
}

func NewMockAbbreviationSource(abbrevs map[string]string) *MockAbbreviationSource {
	return &MockAbbreviationSource{Abbreviations: abbrevs}
}

func (m *MockAbbreviationSource) Load(_ context.Context) (map[string]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Abbreviations, nil
}
