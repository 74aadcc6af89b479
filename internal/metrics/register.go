package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterHTTPMetrics registers the HTTP server metrics on reg.
func RegisterHTTPMetrics(reg prometheus.Registerer) error {
	if err := RegisterOrReuse(reg, &HTTPRequestDuration); err != nil {
		return err
	}
	return RegisterOrReuse(reg, &HTTPRequestsTotal)
}

// RegisterSourceMetrics registers the remote source metrics on reg.
// Registering twice on the same registry is a no-op.
func RegisterSourceMetrics(reg prometheus.Registerer) error {
	if err := RegisterOrReuse(reg, &RemoteRequestsTotal); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &RemoteRequestDuration); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &IndexVersionRefreshesTotal); err != nil {
		return err
	}
	if err := RegisterOrReuse(reg, &LookupCacheTotal); err != nil {
		return err
	}
	return RegisterOrReuse(reg, &ScriptEvaluationsTotal)
}

// RegisterOrReuse registers *c on reg. When an equal collector is already
// registered, *c is replaced by it so callers keep writing to the live series.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
