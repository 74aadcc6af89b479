package summary

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

type mockSource struct {
	mu       sync.Mutex
	fail     map[domain.ContentID]error
	block    map[domain.ContentID]bool
	delay    time.Duration
	hq       []bool
	inFlight atomic.Int32
	peak     atomic.Int32
	canceled atomic.Int32
}

func (m *mockSource) Summary(ctx context.Context, id domain.ContentID, hq bool) (domain.Summary, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.hq = append(m.hq, hq)
	err := m.fail[id]
	blocked := m.block[id]
	m.mu.Unlock()

	if blocked {
		<-ctx.Done()
		m.canceled.Add(1)
		return domain.Summary{}, ctx.Err()
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{ID: id, Title: fmt.Sprintf("gallery %d", id)}, nil
}

func TestFetchSummaries_PreservesOrder(t *testing.T) {
	src := &mockSource{}
	f := New(src, nil)

	ids := []domain.ContentID{9, 3, 7, 1}
	got, err := f.FetchSummaries(context.Background(), ids)
	if err != nil {
		t.Fatalf("FetchSummaries: %v", err)
	}
	gotIDs := make([]domain.ContentID, len(got))
	for i, s := range got {
		gotIDs[i] = s.ID
	}
	if !slices.Equal(gotIDs, ids) {
		t.Fatalf("order = %v, want %v", gotIDs, ids)
	}
}

func TestFetchSummaries_Empty(t *testing.T) {
	got, err := New(&mockSource{}, nil).FetchSummaries(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestFetchSummaries_FailFast(t *testing.T) {
	boom := &domain.TransportError{URL: "x", Status: 500}
	src := &mockSource{
		fail:  map[domain.ContentID]error{2: boom},
		block: map[domain.ContentID]bool{1: true, 3: true},
	}
	f := New(src, nil)

	got, err := f.FetchSummaries(context.Background(), []domain.ContentID{1, 2, 3})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if got != nil {
		t.Errorf("partial batch returned: %v", got)
	}
	if src.canceled.Load() != 2 {
		t.Errorf("canceled siblings = %d, want 2", src.canceled.Load())
	}
}

func TestFetchSummaries_Concurrency(t *testing.T) {
	src := &mockSource{delay: 10 * time.Millisecond}
	f := New(src, nil).WithConcurrency(3)

	ids := make([]domain.ContentID, 12)
	for i := range ids {
		ids[i] = domain.ContentID(i + 1)
	}
	if _, err := f.FetchSummaries(context.Background(), ids); err != nil {
		t.Fatal(err)
	}
	if p := src.peak.Load(); p > 3 {
		t.Errorf("peak in-flight = %d, want <= 3", p)
	}
}

func TestFetchSummaries_HighQuality(t *testing.T) {
	src := &mockSource{}
	f := New(src, nil).WithHighQuality(true)

	if _, err := f.FetchSummaries(context.Background(), []domain.ContentID{1, 2}); err != nil {
		t.Fatal(err)
	}
	for _, hq := range src.hq {
		if !hq {
			t.Fatal("expected high quality flag on every fetch")
		}
	}
}
