package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
)

func TestMain(m *testing.M) {
	if err := metrics.RegisterSourceMetrics(prometheus.NewRegistry()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(url string) *Client {
	return New(&Config{
		BaseURL:   "https://gallery.example",
		LTNURL:    url,
		UserAgent: "gallerysrc-test/1.0",
		Timeout:   5 * time.Second,
		Logger:    zap.NewNop(),
	})
}

func TestClient_GetSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Referer"); got != "https://gallery.example/" {
			t.Errorf("Referer = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "gallerysrc-test/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		if r.Header.Get("Range") != "" {
			t.Error("plain Get must not send Range")
		}
		_, _ = w.Write([]byte("1712345678"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	before := testutil.ToFloat64(metrics.RemoteRequestsTotal.WithLabelValues(EndpointVersion, "success"))

	body, err := c.Get(context.Background(), EndpointVersion, server.URL+"/tagindex/version")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "1712345678" {
		t.Errorf("body = %q", body)
	}
	after := testutil.ToFloat64(metrics.RemoteRequestsTotal.WithLabelValues(EndpointVersion, "success"))
	if after != before+1 {
		t.Errorf("success counter moved %v -> %v", before, after)
	}
}

func TestClient_GetRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Range"); got != "bytes=100-199" {
			t.Errorf("Range = %q", got)
		}
		w.Header().Set("Content-Range", "bytes 100-199/1000")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(make([]byte, 100))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp, err := c.GetRange(context.Background(), EndpointNozomi, server.URL+"/popular-all.nozomi", 100, 199)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if resp.Status != http.StatusPartialContent || resp.ContentRange != "bytes 100-199/1000" || len(resp.Body) != 100 {
		t.Errorf("resp = %d %q %d", resp.Status, resp.ContentRange, len(resp.Body))
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.GetRange(context.Background(), EndpointNozomi, server.URL+"/x.nozomi", 5000, 5099)

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Status != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("Status = %d", te.Status)
	}
	if !errors.Is(err, domain.ErrTransport) {
		t.Error("expected ErrTransport")
	}
}

func TestClient_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := 64
		if r.URL.Path == "/oversized.nozomi" {
			n = 65
		}
		_, _ = w.Write(make([]byte, n))
	}))
	defer server.Close()

	c := New(&Config{BaseURL: "https://gallery.example", MaxBodySize: 64})

	body, err := c.Get(context.Background(), EndpointNozomi, server.URL+"/exact.nozomi")
	if err != nil {
		t.Fatalf("body at the limit: %v", err)
	}
	if len(body) != 64 {
		t.Errorf("len(body) = %d, want 64", len(body))
	}

	before := testutil.ToFloat64(metrics.RemoteRequestsTotal.WithLabelValues(EndpointNozomi, "error"))
	_, err = c.Get(context.Background(), EndpointNozomi, server.URL+"/oversized.nozomi")
	var fe *domain.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError for oversized body, got %v", err)
	}
	if !errors.Is(err, domain.ErrFormat) {
		t.Error("expected ErrFormat")
	}
	if after := testutil.ToFloat64(metrics.RemoteRequestsTotal.WithLabelValues(EndpointNozomi, "error")); after != before+1 {
		t.Errorf("error counter moved %v -> %v", before, after)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(server.URL)
	_, err := c.Get(ctx, EndpointBlock, server.URL+"/galleryblock/1.html")
	if !errors.Is(err, domain.ErrTransport) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected transport error wrapping context.Canceled, got %v", err)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	c := New(&Config{BaseURL: "https://gallery.example", RateLimit: 0.001, Burst: 1})
	// first request consumes the only token
	if !c.limiter.Allow() {
		t.Fatal("expected initial token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, EndpointVersion, "http://127.0.0.1:1/never")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport from limiter wait, got %v", err)
	}
}

func TestClient_Accessors(t *testing.T) {
	c := newTestClient("https://ltn.example")
	if c.BaseURL() != "https://gallery.example" || c.LTNURL() != "https://ltn.example" {
		t.Fatalf("accessors = %q %q", c.BaseURL(), c.LTNURL())
	}
}
