// Package nozomi reads the site's binary indexes: ranged listing pages,
// index versions and per-term gallery id lookups.
package nozomi

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	binfmt "github.com/kailas-cloud/gallerysrc/internal/nozomi"
	"github.com/kailas-cloud/gallerysrc/internal/transport/site"
)

// Listing resources on the index host.
const (
	PopularResource = "popular-all.nozomi"
	LatestResource  = "index-all.nozomi"
)

// PageBytes is the byte span of one listing page (25 ids).
const PageBytes = 100

// maxPage is the last page whose byte range fits in an int64 offset.
const maxPage = math.MaxInt64 / PageBytes

// fetcher is the consumer interface for the site transport (ISP).
type fetcher interface {
	Get(ctx context.Context, endpoint, url string) ([]byte, error)
	GetRange(ctx context.Context, endpoint, url string, start, end int64) (site.Response, error)
	LTNURL() string
}

// Repo reads nozomi resources through the site transport.
type Repo struct {
	site   fetcher
	now    func() time.Time
	logger *zap.Logger
}

// New creates a nozomi repository.
func New(f fetcher, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{site: f, now: time.Now, logger: logger}
}

// Version fetches the current version tag of one index family.
func (r *Repo) Version(ctx context.Context, family domain.IndexFamily) (int64, error) {
	url := fmt.Sprintf("%s/%s/version?_=%d", r.site.LTNURL(), family, r.now().UnixMilli())
	body, err := r.site.Get(ctx, site.EndpointVersion, url)
	if err != nil {
		return 0, fmt.Errorf("fetch %s version: %w", family, err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, domain.NewFormatError(string(family)+"/version", "not a decimal version: %q", truncate(body, 32))
	}
	return v, nil
}

// FetchRange reads one 25-id page of a listing resource. hasNext reports
// whether bytes remain after the returned range.
func (r *Repo) FetchRange(ctx context.Context, resource string, page int) ([]domain.ContentID, bool, error) {
	if page < 1 || int64(page) > maxPage {
		return nil, false, fmt.Errorf("page %d: %w", page, domain.ErrInvalidArgument)
	}
	start := int64(PageBytes) * int64(page-1)
	end := start + PageBytes - 1

	resp, err := r.site.GetRange(ctx, site.EndpointNozomi, r.site.LTNURL()+"/"+resource, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s page %d: %w", resource, page, err)
	}

	cr, err := ParseContentRange(resp.ContentRange)
	if err != nil {
		return nil, false, domain.NewFormatError(resource, "%v", err)
	}
	ids, err := binfmt.Decode(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s page %d: %w", resource, page, err)
	}
	return ids, cr.End < cr.Total-1, nil
}

// ContentRange is a parsed Content-Range header.
type ContentRange struct {
	Start, End, Total int64
}

var contentRangeRe = regexp.MustCompile(`^(?:bytes\s+)?(\d+)-(\d+)/(\d+)$`)

// ParseContentRange parses "[bytes ]start-end/total". An unknown total ("*")
// is rejected because pagination depends on it.
func ParseContentRange(h string) (ContentRange, error) {
	h = strings.TrimSpace(h)
	if h == "" {
		return ContentRange{}, fmt.Errorf("missing Content-Range")
	}
	m := contentRangeRe.FindStringSubmatch(h)
	if m == nil {
		return ContentRange{}, fmt.Errorf("malformed Content-Range %q", h)
	}
	var cr ContentRange
	var err error
	if cr.Start, err = strconv.ParseInt(m[1], 10, 64); err != nil {
		return ContentRange{}, fmt.Errorf("content-range start: %w", err)
	}
	if cr.End, err = strconv.ParseInt(m[2], 10, 64); err != nil {
		return ContentRange{}, fmt.Errorf("content-range end: %w", err)
	}
	if cr.Total, err = strconv.ParseInt(m[3], 10, 64); err != nil {
		return ContentRange{}, fmt.Errorf("content-range total: %w", err)
	}
	if cr.End < cr.Start || cr.Total <= cr.End {
		return ContentRange{}, fmt.Errorf("inconsistent Content-Range %q", h)
	}
	return cr, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
