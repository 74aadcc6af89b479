// Package gallery reads per-gallery resources from the site: summary
// fragments, detail renderings, page manifests and the image URL scripts.
package gallery

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
	"github.com/kailas-cloud/gallerysrc/internal/parser"
	"github.com/kailas-cloud/gallerysrc/internal/transport/site"
)

// Script markers delimiting the parts of gg.js and common.js that are loaded.
const (
	ggStartMarker     = "'use strict';"
	commonStartMarker = "navigator.userAgent);"
	commonEndMarker   = "function show_loading()"
)

// fetcher is the consumer interface for the site transport (ISP).
type fetcher interface {
	Get(ctx context.Context, endpoint, url string) ([]byte, error)
	BaseURL() string
	LTNURL() string
}

// Repo reads gallery resources.
type Repo struct {
	site fetcher
}

// New creates a gallery repository.
func New(f fetcher) *Repo {
	return &Repo{site: f}
}

// BaseURL returns the site origin used for canonical URLs.
func (r *Repo) BaseURL() string { return r.site.BaseURL() }

// Summary fetches and parses the summary fragment of id.
func (r *Repo) Summary(ctx context.Context, id domain.ContentID, highQuality bool) (domain.Summary, error) {
	body, err := r.block(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}
	s, err := parser.ParseGalleryBlock(bytes.NewReader(body), highQuality)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("gallery %d: %w", id, err)
	}
	s.ID = id
	return s, nil
}

// Metadata fetches the detail rendering of id and extracts its metadata.
// location is recorded as the canonical URL.
func (r *Repo) Metadata(ctx context.Context, id domain.ContentID, location string) (domgallery.Metadata, error) {
	body, err := r.block(ctx, id)
	if err != nil {
		return domgallery.Metadata{}, err
	}
	m, err := parser.ParseGallery(bytes.NewReader(body), location)
	if err != nil {
		return domgallery.Metadata{}, fmt.Errorf("gallery %d: %w", id, err)
	}
	return m, nil
}

// Pages fetches the page manifest of id.
func (r *Repo) Pages(ctx context.Context, id domain.ContentID) ([]domgallery.PageRef, error) {
	url := fmt.Sprintf("%s/galleries/%d.js", r.site.LTNURL(), id)
	body, err := r.site.Get(ctx, site.EndpointManifest, url)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest %d: %w", id, err)
	}
	pages, err := parser.ParseManifest(body)
	if err != nil {
		return nil, fmt.Errorf("gallery %d: %w", id, err)
	}
	return pages, nil
}

// Scripts fetches gg.js and common.js and trims each to its loadable part.
// Nothing is cached; the site rotates gg.js frequently.
func (r *Repo) Scripts(ctx context.Context) (gg, common string, err error) {
	ggBody, err := r.site.Get(ctx, site.EndpointScript, r.site.LTNURL()+"/gg.js")
	if err != nil {
		return "", "", fmt.Errorf("fetch gg.js: %w", err)
	}
	commonBody, err := r.site.Get(ctx, site.EndpointScript, r.site.LTNURL()+"/common.js")
	if err != nil {
		return "", "", fmt.Errorf("fetch common.js: %w", err)
	}
	return TrimGG(string(ggBody)), TrimCommon(string(commonBody)), nil
}

func (r *Repo) block(ctx context.Context, id domain.ContentID) ([]byte, error) {
	url := fmt.Sprintf("%s/galleryblock/%d.html", r.site.LTNURL(), id)
	body, err := r.site.Get(ctx, site.EndpointBlock, url)
	if err != nil {
		return nil, fmt.Errorf("fetch gallery %d: %w", id, err)
	}
	return body, nil
}

// TrimGG keeps what follows the strict-mode directive.
func TrimGG(src string) string {
	if _, after, ok := strings.Cut(src, ggStartMarker); ok {
		return after
	}
	return src
}

// TrimCommon keeps the URL helpers between the user agent probe and the
// loading indicator code.
func TrimCommon(src string) string {
	if _, after, ok := strings.Cut(src, commonStartMarker); ok {
		src = after
	}
	if before, _, ok := strings.Cut(src, commonEndMarker); ok {
		src = before
	}
	return src
}
