package nozomi

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/transport/site"
)

const testLTN = "https://ltn.example"

// fakeSite serves in-memory resources and honours ranges like a static host.
type fakeSite struct {
	mu        sync.Mutex
	resources map[string][]byte
	// contentRange overrides the Content-Range header when non-nil.
	contentRange *string
	err          error
	calls        []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{resources: map[string][]byte{}}
}

func (f *fakeSite) LTNURL() string { return testLTN }

func (f *fakeSite) Get(_ context.Context, _, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.resources[url]
	if !ok {
		return nil, &domain.TransportError{URL: url, Status: 404}
	}
	return body, nil
}

func (f *fakeSite) GetRange(_ context.Context, _, url string, start, end int64) (site.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s@%d-%d", url, start, end))
	if f.err != nil {
		return site.Response{}, f.err
	}
	body, ok := f.resources[url]
	if !ok {
		return site.Response{}, &domain.TransportError{URL: url, Status: 404}
	}
	total := int64(len(body))
	if start >= total {
		return site.Response{}, &domain.TransportError{URL: url, Status: 416}
	}
	if end >= total {
		end = total - 1
	}
	cr := fmt.Sprintf("bytes %d-%d/%d", start, end, total)
	if f.contentRange != nil {
		cr = *f.contentRange
	}
	return site.Response{Status: 206, Body: body[start : end+1], ContentRange: cr}, nil
}
