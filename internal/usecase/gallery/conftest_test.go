package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

const testBase = "https://gallery.example"

// --- Mocks ---

type mockRepo struct {
	pages     []domgallery.PageRef
	pagesErr  error
	metaErr   error
	summaryHQ bool
	ids       []domain.ContentID
	locations []string
}

func (m *mockRepo) Summary(_ context.Context, id domain.ContentID, hq bool) (domain.Summary, error) {
	m.ids = append(m.ids, id)
	m.summaryHQ = hq
	return domain.Summary{ID: id, Title: fmt.Sprintf("gallery %d", id)}, nil
}

func (m *mockRepo) Metadata(_ context.Context, id domain.ContentID, location string) (domgallery.Metadata, error) {
	m.ids = append(m.ids, id)
	m.locations = append(m.locations, location)
	if m.metaErr != nil {
		return domgallery.Metadata{}, m.metaErr
	}
	return domgallery.New(&domgallery.Fields{CanonicalURL: location, Title: "T"}), nil
}

func (m *mockRepo) Pages(_ context.Context, id domain.ContentID) ([]domgallery.PageRef, error) {
	m.ids = append(m.ids, id)
	if m.pagesErr != nil {
		return nil, m.pagesErr
	}
	return append([]domgallery.PageRef(nil), m.pages...), nil
}

func (m *mockRepo) BaseURL() string { return testBase }

type mockAssets struct {
	mu   sync.Mutex
	fail map[string]error
	seen []string
}

func (m *mockAssets) ResolveURL(_ context.Context, hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, hash)
	if err := m.fail[hash]; err != nil {
		return "", err
	}
	return "https://a.example/" + hash + ".webp", nil
}
