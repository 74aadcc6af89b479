package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the HTTP handlers.
type ServerInterface interface {
	// (GET /v1/popular)
	ListPopular(w http.ResponseWriter, r *http.Request, params ListParams)
	// (GET /v1/latest)
	ListLatest(w http.ResponseWriter, r *http.Request, params ListParams)
	// (GET /v1/search)
	Search(w http.ResponseWriter, r *http.Request, params SearchParams)
	// (GET /v1/galleries/{id})
	GetGallery(w http.ResponseWriter, r *http.Request, id GalleryID)
	// (GET /v1/galleries/{id}/pages)
	ListPages(w http.ResponseWriter, r *http.Request, id GalleryID, params PagesParams)
	// (GET /v1/images/{hash})
	ResolveImage(w http.ResponseWriter, r *http.Request, hash string)
	// (GET /v1/import)
	ImportURL(w http.ResponseWriter, r *http.Request, params ImportParams)
	// (POST /v1/legacy/{kind})
	ParseLegacy(w http.ResponseWriter, r *http.Request, kind LegacyKind)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single route handler.
type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// RequiredParamError reports a missing required query parameter.
type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("query argument %s is required, but not found", e.ParamName)
}

// ServerInterfaceWrapper binds request parameters and dispatches to the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	h.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindList(w http.ResponseWriter, r *http.Request) (ListParams, bool) {
	var params ListParams
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "page", Err: err})
		return params, false
	}
	return params, true
}

// ListPopular operation middleware
func (siw *ServerInterfaceWrapper) ListPopular(w http.ResponseWriter, r *http.Request) {
	params, ok := siw.bindList(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListPopular(w, r, params)
	}))
}

// ListLatest operation middleware
func (siw *ServerInterfaceWrapper) ListLatest(w http.ResponseWriter, r *http.Request) {
	params, ok := siw.bindList(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListLatest(w, r, params)
	}))
}

// Search operation middleware
func (siw *ServerInterfaceWrapper) Search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	query := r.URL.Query()

	if _, found := query["q"]; !found {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: "q"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "q", query, &params.Q); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "page", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.Search(w, r, params)
	}))
}

func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (GalleryID, bool) {
	var id GalleryID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}
	return id, true
}

// GetGallery operation middleware
func (siw *ServerInterfaceWrapper) GetGallery(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGallery(w, r, id)
	}))
}

// ListPages operation middleware
func (siw *ServerInterfaceWrapper) ListPages(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	var params PagesParams
	if err := runtime.BindQueryParameter("form", true, false, "resolve", r.URL.Query(), &params.Resolve); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "resolve", Err: err})
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListPages(w, r, id, params)
	}))
}

// ResolveImage operation middleware
func (siw *ServerInterfaceWrapper) ResolveImage(w http.ResponseWriter, r *http.Request) {
	var hash string
	err := runtime.BindStyledParameterWithOptions("simple", "hash", chi.URLParam(r, "hash"), &hash,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "hash", Err: err})
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ResolveImage(w, r, hash)
	}))
}

// ImportURL operation middleware
func (siw *ServerInterfaceWrapper) ImportURL(w http.ResponseWriter, r *http.Request) {
	var params ImportParams
	query := r.URL.Query()

	if _, found := query["url"]; !found {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: "url"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "url", query, &params.URL); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "url", Err: err})
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ImportURL(w, r, params)
	}))
}

// ParseLegacy operation middleware
func (siw *ServerInterfaceWrapper) ParseLegacy(w http.ResponseWriter, r *http.Request) {
	var kind LegacyKind
	err := runtime.BindStyledParameterWithOptions("simple", "kind", chi.URLParam(r, "kind"), &kind,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "kind", Err: err})
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ParseLegacy(w, r, kind)
	}))
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.HealthCheck))
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.Metrics))
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts si on a new chi router.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions mounts si on options.BaseRouter (or a new router).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/popular", wrapper.ListPopular)
		r.Get(options.BaseURL+"/v1/latest", wrapper.ListLatest)
		r.Get(options.BaseURL+"/v1/search", wrapper.Search)
		r.Get(options.BaseURL+"/v1/galleries/{id}", wrapper.GetGallery)
		r.Get(options.BaseURL+"/v1/galleries/{id}/pages", wrapper.ListPages)
		r.Get(options.BaseURL+"/v1/images/{hash}", wrapper.ResolveImage)
		r.Get(options.BaseURL+"/v1/import", wrapper.ImportURL)
		r.Post(options.BaseURL+"/v1/legacy/{kind}", wrapper.ParseLegacy)
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})
	return r
}
