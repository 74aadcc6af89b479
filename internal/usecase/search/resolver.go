package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/domain/query"
)

// Resolver turns a boolean tag query into a set of gallery ids.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a query resolver.
func NewResolver(l Lookup) *Resolver {
	return &Resolver{lookup: l}
}

// Resolve evaluates q. The first positive term seeds the result (all
// galleries when there is none), remaining positives are intersected and
// negatives subtracted. Every lookup uses pair. Any failed lookup aborts the
// resolution.
func (r *Resolver) Resolve(ctx context.Context, q query.Query, pair domain.VersionPair) (domain.IDSet, error) {
	positive := q.Positive()
	negative := q.Negative()

	var (
		base []domain.ContentID
		err  error
	)
	if len(positive) == 0 {
		base, err = r.lookup.AllIDs(ctx, pair)
		if err != nil {
			return nil, fmt.Errorf("lookup all: %w", err)
		}
	} else {
		base, err = r.lookup.Lookup(ctx, positive[0], pair)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", positive[0], err)
		}
		positive = positive[1:]
	}

	result := domain.NewIDSet(base)
	for _, term := range positive {
		ids, err := r.lookup.Lookup(ctx, term, pair)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", term, err)
		}
		result = result.Intersect(domain.NewIDSet(ids))
	}
	for _, term := range negative {
		ids, err := r.lookup.Lookup(ctx, term, pair)
		if err != nil {
			return nil, fmt.Errorf("lookup -%q: %w", term, err)
		}
		result = result.Difference(domain.NewIDSet(ids))
	}
	return result, nil
}
