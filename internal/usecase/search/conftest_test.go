package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// --- Mocks ---

type mockLookup struct {
	mu    sync.Mutex
	terms map[string][]domain.ContentID
	all   []domain.ContentID
	err   map[string]error
	calls []string
	pairs []domain.VersionPair
}

func (m *mockLookup) Lookup(_ context.Context, term string, pair domain.VersionPair) ([]domain.ContentID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, term)
	m.pairs = append(m.pairs, pair)
	if err := m.err[term]; err != nil {
		return nil, err
	}
	return m.terms[term], nil
}

func (m *mockLookup) AllIDs(_ context.Context, pair domain.VersionPair) ([]domain.ContentID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "<all>")
	m.pairs = append(m.pairs, pair)
	return m.all, nil
}

type mockVersions struct {
	pair  domain.VersionPair
	err   error
	calls int
}

func (m *mockVersions) Pair(_ context.Context) (domain.VersionPair, error) {
	m.calls++
	return m.pair, m.err
}

type mockSummaries struct {
	err   error
	calls [][]domain.ContentID
}

func (m *mockSummaries) FetchSummaries(_ context.Context, ids []domain.ContentID) ([]domain.Summary, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Summary, len(ids))
	for i, id := range ids {
		out[i] = domain.Summary{ID: id}
	}
	return out, nil
}

type mockImporter struct {
	summary domain.Summary
	err     error
	urls    []string
}

func (m *mockImporter) ImportSummary(_ context.Context, rawURL string) (domain.Summary, error) {
	m.urls = append(m.urls, rawURL)
	return m.summary, m.err
}

func seq(from, n int) []domain.ContentID {
	ids := make([]domain.ContentID, n)
	for i := range ids {
		ids[i] = domain.ContentID(from + i)
	}
	return ids
}

func itemIDs(items []domain.Summary) []domain.ContentID {
	out := make([]domain.ContentID, len(items))
	for i, s := range items {
		out[i] = s.ID
	}
	return out
}
