package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
	logpkg "github.com/kailas-cloud/gallerysrc/internal/logger"
	"github.com/kailas-cloud/gallerysrc/internal/transport/api"
	healthuc "github.com/kailas-cloud/gallerysrc/internal/usecase/health"
)

// Listings serves the popular and latest listings.
type Listings interface {
	Popular(ctx context.Context, page int) (domain.Listing, error)
	Latest(ctx context.Context, page int) (domain.Listing, error)
}

// Searcher runs tag queries.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (domain.Listing, error)
}

// Galleries serves single-gallery operations.
type Galleries interface {
	URLFor(id domain.ContentID) string
	Details(ctx context.Context, canonicalURL string) (domgallery.Metadata, error)
	Pages(ctx context.Context, canonicalURL string, resolve bool) ([]domgallery.PageRef, error)
	Import(ctx context.Context, rawURL string) (string, error)
}

// Assets resolves page image URLs.
type Assets interface {
	ResolveURL(ctx context.Context, hash string) (string, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	listings      Listings
	search        Searcher
	galleries     Galleries
	assets        Assets
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	listings Listings,
	search Searcher,
	galleries Galleries,
	assets Assets,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		listings:  listings,
		search:    search,
		galleries: galleries,
		assets:    assets,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, api.ErrorResponseCodeInvalidArgument),
		sentinelHandler(domain.ErrNoMapping, http.StatusNotFound, api.ErrorResponseCodeNoMapping),
		notFoundHandler,
		sentinelHandler(domain.ErrFormat, http.StatusBadGateway, api.ErrorResponseCodeUpstreamFormat),
		sentinelHandler(domain.ErrScriptEvaluation, http.StatusBadGateway, api.ErrorResponseCodeScriptFailed),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, api.ErrorResponseCodeUpstreamUnavailable),
		sentinelHandler(domain.ErrUnsupportedOperation, http.StatusNotImplemented, api.ErrorResponseCodeNotImplemented),
	}
	return s
}

// ListPopular handles GET /v1/popular.
func (s *Server) ListPopular(w http.ResponseWriter, r *http.Request, params api.ListParams) {
	l, err := s.listings.Popular(r.Context(), pageOrFirst(params.Page))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingToAPI(l))
}

// ListLatest handles GET /v1/latest.
func (s *Server) ListLatest(w http.ResponseWriter, r *http.Request, params api.ListParams) {
	l, err := s.listings.Latest(r.Context(), pageOrFirst(params.Page))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingToAPI(l))
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params api.SearchParams) {
	l, err := s.search.Search(r.Context(), params.Q, pageOrFirst(params.Page))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingToAPI(l))
}

// GetGallery handles GET /v1/galleries/{id}.
func (s *Server) GetGallery(w http.ResponseWriter, r *http.Request, id api.GalleryID) {
	if id <= 0 {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeInvalidArgument, "gallery id must be positive")
		return
	}
	m, err := s.galleries.Details(r.Context(), s.galleries.URLFor(domain.ContentID(id)))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataToAPI(&m))
}

// ListPages handles GET /v1/galleries/{id}/pages.
func (s *Server) ListPages(w http.ResponseWriter, r *http.Request, id api.GalleryID, params api.PagesParams) {
	if id <= 0 {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeInvalidArgument, "gallery id must be positive")
		return
	}
	resolve := params.Resolve != nil && *params.Resolve
	pages, err := s.galleries.Pages(r.Context(), s.galleries.URLFor(domain.ContentID(id)), resolve)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]api.PageRef, len(pages))
	for i, p := range pages {
		items[i] = api.PageRef{Index: p.Index, Hash: p.Hash}
		if p.ImageURL != "" {
			u := p.ImageURL
			items[i].ImageURL = &u
		}
	}
	writeJSON(w, http.StatusOK, api.PagesResponse{Items: items})
}

// ResolveImage handles GET /v1/images/{hash}.
func (s *Server) ResolveImage(w http.ResponseWriter, r *http.Request, hash string) {
	u, err := s.assets.ResolveURL(r.Context(), hash)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ImageResponse{Hash: hash, URL: u})
}

// ImportURL handles GET /v1/import.
func (s *Server) ImportURL(w http.ResponseWriter, r *http.Request, params api.ImportParams) {
	u, err := s.galleries.Import(r.Context(), params.URL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ImportResponse{URL: u})
}

// ParseLegacy handles POST /v1/legacy/{kind}. Single-response parsing is not offered.
func (s *Server) ParseLegacy(w http.ResponseWriter, r *http.Request, kind api.LegacyKind) {
	s.handleDomainError(w, r, fmt.Errorf("legacy %s parsing: %w", kind, domain.ErrUnsupportedOperation))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler answers parameter binding failures.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "invalid request: "+err.Error())
}

func pageOrFirst(p *int) int {
	if p == nil {
		return 1
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrNoMapping,
		domain.ErrFormat,
		domain.ErrScriptEvaluation,
		domain.ErrTransport,
		domain.ErrUnsupportedOperation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// notFoundHandler maps a 404 from the site onto our own 404.
func notFoundHandler(w http.ResponseWriter, err error, _ string) bool {
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusNotFound {
		return false
	}
	writeError(w, http.StatusNotFound, api.ErrorResponseCodeNotFound, "gallery not found")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.Or(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}

func listingToAPI(l domain.Listing) api.ListingResponse {
	items := make([]api.Summary, len(l.Items))
	for i, it := range l.Items {
		items[i] = api.Summary{
			ID:           int32(it.ID),
			Title:        it.Title,
			ThumbnailURL: it.ThumbnailURL,
			DetailURL:    it.DetailURL,
		}
	}
	return api.ListingResponse{Page: l.Page, Items: items, HasNextPage: l.HasNextPage}
}

func metadataToAPI(m *domgallery.Metadata) api.GalleryResponse {
	resp := api.GalleryResponse{
		URL:          m.CanonicalURL(),
		Title:        m.Title(),
		ThumbnailURL: m.ThumbnailURL(),
		Artists:      nonNil(m.Artists()),
		Series:       nonNil(m.Series()),
		Characters:   nonNil(m.Characters()),
	}
	if v, ok := m.Group(); ok {
		resp.Group = &v
	}
	if v, ok := m.Genre(); ok {
		resp.Genre = &v
	}
	if v, ok := m.Language(); ok {
		resp.Language = &v
	}
	if v, ok := m.Uploaded(); ok {
		resp.Uploaded = &v
	}

	tags := m.Tags()
	resp.Tags = make([]api.Tag, len(tags))
	for i, t := range tags {
		resp.Tags[i] = api.Tag{Namespace: t.Namespace, Text: t.Text, Kind: t.Kind.String()}
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
