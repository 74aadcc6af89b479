// Package asset resolves page hashes into image URLs by running the site's
// own URL scripts.
package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/metrics"
	"github.com/kailas-cloud/gallerysrc/internal/script"
)

// DefaultTimeout bounds one script evaluation.
const DefaultTimeout = 5 * time.Second

// ScriptSource fetches the trimmed gg.js and common.js bodies.
type ScriptSource interface {
	Scripts(ctx context.Context) (gg, common string, err error)
}

// Resolver builds a fresh sandbox for every resolution.
type Resolver struct {
	scripts ScriptSource
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an asset resolver with DefaultTimeout.
func New(s ScriptSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{scripts: s, timeout: DefaultTimeout, logger: logger}
}

// WithTimeout overrides the evaluation budget. Non-positive values are ignored.
func (r *Resolver) WithTimeout(d time.Duration) *Resolver {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// ResolveURL returns the image URL for hash. Scripts are fetched on every
// call since the site rotates them.
func (r *Resolver) ResolveURL(ctx context.Context, hash string) (string, error) {
	if strings.TrimSpace(hash) == "" {
		return "", fmt.Errorf("empty page hash: %w", domain.ErrInvalidArgument)
	}

	gg, common, err := r.scripts.Scripts(ctx)
	if err != nil {
		return "", err
	}

	expr, err := Expression(hash)
	if err != nil {
		return "", err
	}

	u, err := r.evaluate(ctx, gg, common, expr)
	if err != nil {
		metrics.ScriptEvaluationsTotal.WithLabelValues("error").Inc()
		r.logger.Warn("image url script failed", zap.String("hash", hash), zap.Error(err))
		return "", err
	}
	metrics.ScriptEvaluationsTotal.WithLabelValues("ok").Inc()
	return u, nil
}

func (r *Resolver) evaluate(ctx context.Context, gg, common, expr string) (string, error) {
	sb := script.New(ctx, r.timeout)
	defer sb.Close()

	if err := sb.Load("gg.js", gg); err != nil {
		return "", err
	}
	if err := sb.Load("common.js", common); err != nil {
		return "", err
	}
	return sb.EvalString(expr)
}

// Expression builds the call that yields the image URL for hash. The hash
// is embedded as a JSON string literal.
func Expression(hash string) (string, error) {
	quoted, err := json.Marshal(hash)
	if err != nil {
		return "", fmt.Errorf("quote hash: %w", err)
	}
	return fmt.Sprintf("url_from_url_from_hash('', {'hash':%s}, 'webp', undefined, 'a');", quoted), nil
}
