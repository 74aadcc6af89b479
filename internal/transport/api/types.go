// Package api defines the HTTP contract of the gallerysrc server: wire
// types, the handler interface and the chi routing with parameter binding.
package api

import "time"

// ErrorResponseCode is the machine-readable error class.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest          ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized        ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidArgument     ErrorResponseCode = "invalid_argument"
	ErrorResponseCodeNotFound            ErrorResponseCode = "not_found"
	ErrorResponseCodeNoMapping           ErrorResponseCode = "no_mapping"
	ErrorResponseCodeUpstreamFormat      ErrorResponseCode = "upstream_format"
	ErrorResponseCodeUpstreamUnavailable ErrorResponseCode = "upstream_unavailable"
	ErrorResponseCodeScriptFailed        ErrorResponseCode = "script_failed"
	ErrorResponseCodeNotImplemented      ErrorResponseCode = "not_implemented"
	ErrorResponseCodeInternalError       ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Summary is one listing entry.
type Summary struct {
	ID           int32  `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	DetailURL    string `json:"detail_url"`
}

// ListingResponse is one page of a listing or search.
type ListingResponse struct {
	Page        int       `json:"page"`
	Items       []Summary `json:"items"`
	HasNextPage bool      `json:"has_next_page"`
}

// Tag is a classified gallery tag.
type Tag struct {
	Namespace string `json:"namespace"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
}

// GalleryResponse is the full metadata of one gallery.
type GalleryResponse struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Artists      []string   `json:"artists"`
	Group        *string    `json:"group,omitempty"`
	Genre        *string    `json:"genre,omitempty"`
	Series       []string   `json:"series"`
	Language     *string    `json:"language,omitempty"`
	Characters   []string   `json:"characters"`
	Tags         []Tag      `json:"tags"`
	Uploaded     *time.Time `json:"uploaded,omitempty"`
}

// PageRef is one gallery page.
type PageRef struct {
	Index    int     `json:"index"`
	Hash     string  `json:"hash"`
	ImageURL *string `json:"image_url,omitempty"`
}

// PagesResponse lists a gallery's pages in reading order.
type PagesResponse struct {
	Items []PageRef `json:"items"`
}

// ImageResponse carries a resolved image URL.
type ImageResponse struct {
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

// ImportResponse carries the canonical URL of an imported link.
type ImportResponse struct {
	URL string `json:"url"`
}

// HealthResponseStatus is the aggregated health status.
type HealthResponseStatus string

// HealthResponseChecks is a single component result.
type HealthResponseChecks string

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}

// ListParams are the query parameters of the popular and latest listings.
type ListParams struct {
	Page *int `form:"page,omitempty" json:"page,omitempty"`
}

// SearchParams are the query parameters of GET /v1/search.
type SearchParams struct {
	Q    string `form:"q" json:"q"`
	Page *int   `form:"page,omitempty" json:"page,omitempty"`
}

// PagesParams are the query parameters of GET /v1/galleries/{id}/pages.
type PagesParams struct {
	Resolve *bool `form:"resolve,omitempty" json:"resolve,omitempty"`
}

// ImportParams are the query parameters of GET /v1/import.
type ImportParams struct {
	URL string `form:"url" json:"url"`
}

// GalleryID is the {id} path parameter.
type GalleryID = int32

// LegacyKind is the {kind} path parameter.
type LegacyKind = string
