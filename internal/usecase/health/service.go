package health

import (
	"context"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the lookup cache is down; queries still work uncached.
	Degraded Status = "degraded"
	// Unhealthy indicates the remote site is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	site  SiteChecker
	cache CachePinger
}

// New creates a Service. cache can be nil when the lookup cache is disabled.
func New(site SiteChecker, cache CachePinger) *Service {
	return &Service{site: site, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			status = Degraded
		} else {
			checks["cache"] = CheckOK
		}
	}

	// The version endpoint is the cheapest resource the site serves.
	if _, err := s.site.Version(ctx, domain.GalleriesIndex); err != nil {
		checks["site"] = CheckError
		status = Unhealthy
	} else {
		checks["site"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
