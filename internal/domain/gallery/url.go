package gallery

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// MatchingHosts are the hosts whose URLs can be imported.
var MatchingHosts = []string{"hitomi.la"}

// IsImportable reports whether raw looks like an absolute http(s) URL.
func IsImportable(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// MapImportURL maps an external URL (or bare path) onto the canonical gallery URL under baseURL.
// Only /manga/<id>.html and /reader/<id>.html shapes are recognised.
func MapImportURL(u *url.URL, baseURL string) (string, bool) {
	if u.Host != "" && !hostMatches(u.Hostname()) {
		return "", false
	}

	segments := pathSegments(u.Path)
	if len(segments) < 2 {
		return "", false
	}
	switch strings.ToLower(segments[0]) {
	case "manga", "reader":
	default:
		return "", false
	}

	id, _, _ := strings.Cut(segments[1], ".")
	if id == "" {
		return "", false
	}
	return strings.TrimRight(baseURL, "/") + "/manga/" + id + ".html", true
}

// IDFromURL extracts the gallery id from a canonical or listing URL,
// e.g. /manga/some-title-12345.html or /galleries/12345.html.
func IDFromURL(raw string) (domain.ContentID, error) {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	last := path.Base(p)
	if i := strings.LastIndexByte(last, '-'); i >= 0 {
		last = last[i+1:]
	}
	last, _, _ = strings.Cut(last, ".")

	id, err := strconv.ParseInt(last, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("no gallery id in %q: %w", raw, domain.ErrInvalidArgument)
	}
	return domain.ContentID(id), nil
}

func hostMatches(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, h := range MatchingHosts {
		if host == h {
			return true
		}
	}
	return false
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
