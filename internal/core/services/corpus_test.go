package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
	"github.com/clinicode-labs/clinicode-core/internal/core/ports/driven/mocks"
	"github.com/clinicode-labs/clinicode-core/internal/runtime"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validEntries() []domain.CodeEntry {
	return []domain.CodeEntry{
		{Code: "K35", ShortDescription: "Acute appendicitis"},
		{Code: "K35.80", ShortDescription: "Unspecified acute appendicitis", ParentCode: "K35"},
		{Code: "K35.9", ShortDescription: "Acute appendicitis unspecified", ParentCode: "K35"},
		{Code: "M17.0", ShortDescription: "Bilateral primary osteoarthritis of knee"},
	}
}

func TestCorpusService_Load(t *testing.T) {
	reg := runtime.NewRegistry()
	source := mocks.NewMockCorpusSource(validEntries()...)
	abbrevs := mocks.NewMockAbbreviationSource(map[string]string{"appy": "appendectomy"})

	svc := NewCorpusService(source, abbrevs, nil, reg, testLogger())
	require.NoError(t, svc.Load(context.Background()))

	snap := reg.Current()
	require.NotNil(t, snap)
	assert.Equal(t, 4, snap.Index.Len())
	assert.Equal(t, "mock", snap.Source)
	assert.False(t, snap.LoadedAt.IsZero())

	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, 4, status.Entries)

	entry, err := svc.Get(context.Background(), "K35.9")
	require.NoError(t, err)
	assert.Equal(t, "Acute appendicitis unspecified", entry.ShortDescription)
}

func TestCorpusService_GetBeforeLoad(t *testing.T) {
	svc := NewCorpusService(mocks.NewMockCorpusSource(), nil, nil, runtime.NewRegistry(), testLogger())

	_, err := svc.Get(context.Background(), "K35.9")
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)
	assert.False(t, svc.Status().Loaded)
}

func TestCorpusService_LoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.CodeEntry
	}{
		{"missing code", []domain.CodeEntry{
			{ShortDescription: "Acute appendicitis"},
		}},
		{"malformed code", []domain.CodeEntry{
			{Code: "not-a-code", ShortDescription: "Acute appendicitis"},
		}},
		{"missing short description", []domain.CodeEntry{
			{Code: "K35.9"},
		}},
		{"duplicate code", []domain.CodeEntry{
			{Code: "K35.9", ShortDescription: "Acute appendicitis unspecified"},
			{Code: "K35.9", ShortDescription: "Again"},
		}},
		{"unknown parent", []domain.CodeEntry{
			{Code: "K35.9", ShortDescription: "Acute appendicitis unspecified", ParentCode: "K35"},
		}},
		{"parent cycle", []domain.CodeEntry{
			{Code: "K35", ShortDescription: "Acute appendicitis", ParentCode: "K36"},
			{Code: "K36", ShortDescription: "Other appendicitis", ParentCode: "K35"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := runtime.NewRegistry()
			svc := NewCorpusService(mocks.NewMockCorpusSource(tt.entries...), nil, nil, reg, testLogger())

			err := svc.Load(context.Background())
			assert.ErrorIs(t, err, domain.ErrCorpusLoad)
			assert.Nil(t, reg.Current(), "a failed load must not install a snapshot")
		})
	}
}

func TestCorpusService_FailedReloadKeepsSnapshot(t *testing.T) {
	reg := runtime.NewRegistry()
	source := mocks.NewMockCorpusSource(validEntries()...)
	svc := NewCorpusService(source, nil, nil, reg, testLogger())

	require.NoError(t, svc.Load(context.Background()))
	active := reg.Current()

	source.Err = errors.New("source gone")
	err := svc.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusLoad)
	assert.Same(t, active, reg.Current(), "the previous snapshot must stay active")
}

func TestCorpusService_Populate(t *testing.T) {
	store := mocks.NewMockCorpusStore()
	svc := NewCorpusService(mocks.NewMockCorpusSource(validEntries()...), nil, store, runtime.NewRegistry(), testLogger())

	require.NoError(t, svc.Populate(context.Background()))
	assert.Len(t, store.Upserted, 4)
}

func TestCorpusService_PopulateWithoutStore(t *testing.T) {
	svc := NewCorpusService(mocks.NewMockCorpusSource(validEntries()...), nil, nil, runtime.NewRegistry(), testLogger())

	err := svc.Populate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCorpusService_PopulateValidatesFirst(t *testing.T) {
	store := mocks.NewMockCorpusStore()
	bad := []domain.CodeEntry{{Code: "K35.9", ShortDescription: ""}}
	svc := NewCorpusService(mocks.NewMockCorpusSource(bad...), nil, store, runtime.NewRegistry(), testLogger())

	err := svc.Populate(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorpusLoad)
	assert.Empty(t, store.Upserted, "invalid entries must never reach the store")
}
