package gallery

import (
	"context"
	"sync"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

const (
	testBase = "https://gallery.example"
	testLTN  = "https://ltn.example"
)

type fakeSite struct {
	mu        sync.Mutex
	resources map[string]string
	endpoints []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{resources: map[string]string{}}
}

func (f *fakeSite) BaseURL() string { return testBase }
func (f *fakeSite) LTNURL() string  { return testLTN }

func (f *fakeSite) Get(_ context.Context, endpoint, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append(f.endpoints, endpoint)
	body, ok := f.resources[url]
	if !ok {
		return nil, &domain.TransportError{URL: url, Status: 404}
	}
	return []byte(body), nil
}
