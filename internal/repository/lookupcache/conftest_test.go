package lookupcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/db"
	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

type mockLookup struct {
	ids      []domain.ContentID
	err      error
	calls    int
	allCalls int
}

func (m *mockLookup) Lookup(_ context.Context, _ string, _ domain.VersionPair) ([]domain.ContentID, error) {
	m.calls++
	return m.ids, m.err
}

func (m *mockLookup) AllIDs(_ context.Context, _ domain.VersionPair) ([]domain.ContentID, error) {
	m.allCalls++
	return m.ids, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memKVStore is a map-backed store.
type memKVStore struct {
	data map[string][]byte
}

func (m *memKVStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func newTestCachedLookup(t *testing.T, inner *mockLookup) (*CachedLookup, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cl := New(inner, ms, time.Hour, nil, zap.NewNop())
	return cl, ms
}
