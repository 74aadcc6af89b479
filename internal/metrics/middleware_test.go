package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func galleryRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/galleries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Get("/v1/galleries/{id}/pages", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := galleryRouter()

	tests := []struct {
		target  string
		pattern string
		status  string
	}{
		{"/v1/galleries/123", "/v1/galleries/{id}", "200"},
		{"/v1/galleries/456", "/v1/galleries/{id}", "200"},
		{"/v1/galleries/123/pages", "/v1/galleries/{id}/pages", "502"},
		{"/v1/search?q=female:maid", "/v1/search", "200"},
		{"/v1/nowhere", "unknown", "404"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", tc.pattern, tc.status))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, http.NoBody))

			after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", tc.pattern, tc.status))
			if after != before+1 {
				t.Errorf("requests_total{GET,%s,%s} moved %v -> %v", tc.pattern, tc.status, before, after)
			}
		})
	}

	// ids never become label values
	if v := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/galleries/123", "200")); v != 0 {
		t.Errorf("raw path recorded as label: %v", v)
	}
}

func TestMiddleware_StatusWithoutWriteHeader(t *testing.T) {
	h := galleryRouter()
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/search", "200"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/search", http.NoBody))

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/search", "200")); got != before+1 {
		t.Errorf("implicit 200 not recorded: %v -> %v", before, got)
	}
	if testutil.CollectAndCount(HTTPRequestDuration, "gallerysrc_http_request_duration_seconds") == 0 {
		t.Error("expected duration observations")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/v1/galleries/{id}", "/v1/galleries/{id}"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegisterHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterHTTPMetrics(reg); err != nil {
		t.Fatalf("RegisterHTTPMetrics: %v", err)
	}
	if err := RegisterHTTPMetrics(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}

	HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	n, err := testutil.GatherAndCount(reg, "gallerysrc_http_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("http_requests_total not gathered from registry")
	}
}

func TestRegisterSourceMetrics_Reuses(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterSourceMetrics(reg); err != nil {
		t.Fatalf("RegisterSourceMetrics: %v", err)
	}
	orig := RemoteRequestsTotal
	if err := RegisterSourceMetrics(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if RemoteRequestsTotal != orig {
		t.Error("re-registration must keep the registered collector")
	}
}

func TestRegisterOrReuse_IncompatibleType(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallerysrc",
		Name:      "conflict_total",
		Help:      "conflict",
	}, []string{"kind"})
	if err := RegisterOrReuse(reg, &counter); err != nil {
		t.Fatal(err)
	}

	other := prometheus.Collector(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallerysrc",
		Name:      "conflict_total",
		Help:      "conflict",
	}, []string{"kind"}))
	if err := RegisterOrReuse(reg, &other); err != nil {
		t.Fatalf("Collector-typed reuse: %v", err)
	}
	if other != prometheus.Collector(counter) {
		t.Error("expected the registered collector to be reused")
	}

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gallerysrc",
		Name:      "conflict_total",
		Help:      "conflict",
	}, []string{"kind"})
	if err := RegisterOrReuse(reg, &gauge); err == nil {
		t.Error("expected an error for a gauge shadowing a counter")
	}
}
