// Package parser extracts summaries, metadata and page manifests from the
// gallery site's HTML fragments and script literals.
package parser

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

const schemePrefix = "https:"

// ParseGalleryBlock reads a gallery summary fragment. The returned summary
// has no ID; the caller knows which id it fetched.
func ParseGalleryBlock(r io.Reader, highQuality bool) (domain.Summary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Summary{}, formatErr("galleryblock", err)
	}

	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return domain.Summary{}, domain.NewFormatError("galleryblock", "no title element")
	}
	href, ok := h1.Children().First().Attr("href")
	if !ok {
		return domain.Summary{}, domain.NewFormatError("galleryblock", "title has no link")
	}

	return domain.Summary{
		Title:        strings.TrimSpace(h1.Text()),
		ThumbnailURL: thumbnail(doc.Selection, highQuality),
		DetailURL:    href,
	}, nil
}

// thumbnail returns the scheme-qualified cover URL, or "" when the fragment has none.
func thumbnail(s *goquery.Selection, highQuality bool) string {
	var raw string
	if highQuality {
		raw = firstSrcsetCandidate(s.Find("source").First().AttrOr("data-srcset", ""))
	} else {
		raw = s.Find("img").First().AttrOr("data-src", "")
	}
	if raw == "" {
		return ""
	}
	return schemePrefix + raw
}

// firstSrcsetCandidate returns the URL of the first "url descriptor" entry.
func firstSrcsetCandidate(srcset string) string {
	srcset = strings.TrimSpace(srcset)
	if i := strings.IndexByte(srcset, ' '); i >= 0 {
		return srcset[:i]
	}
	return srcset
}

func formatErr(resource string, err error) error {
	return domain.NewFormatError(resource, "parse html: %v", err)
}
