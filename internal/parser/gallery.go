package parser

import (
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

// Upload date layouts. The site writes an ISO offset that may be "Z",
// "+09", "+0900" or "+09:00".
var dateLayouts = []string{
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
}

const genderSuffixLen = 2

// ParseGallery extracts the full metadata record from a gallery document.
// location is the canonical URL the document describes.
func ParseGallery(r io.Reader, location string) (gallery.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return gallery.Metadata{}, formatErr(location, err)
	}

	root := doc.Find("div").First()
	title := root.Find("h1").First()
	if title.Length() == 0 {
		return gallery.Metadata{}, domain.NewFormatError(location, "no title element")
	}

	f := &gallery.Fields{
		CanonicalURL: location,
		Title:        strings.TrimSpace(title.Text()),
		ThumbnailURL: thumbnail(doc.Selection, true),
	}

	root.Find(".artist-list a").Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		f.Artists = append(f.Artists, name)
		f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceArtist, Text: name, Kind: gallery.Structural})
	})

	doc.Find(".dj-desc tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children()
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		parseRow(f, label, cells.Eq(1))
	})

	f.Uploaded = parseDate(strings.TrimSpace(doc.Find(".date").First().Text()))

	return gallery.New(f), nil
}

func parseRow(f *gallery.Fields, label string, content *goquery.Selection) {
	switch label {
	case "group":
		group := strings.TrimSpace(content.Text())
		f.Group = &group
		f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceGroup, Text: group, Kind: gallery.Structural})
	case "type":
		genre := strings.TrimSpace(content.Text())
		f.Genre = &genre
		f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceType, Text: genre, Kind: gallery.Structural})
	case "series":
		f.Series = linkTexts(content)
		for _, s := range f.Series {
			f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceSeries, Text: s, Kind: gallery.Structural})
		}
	case "language":
		href, ok := content.Find("a").First().Attr("href")
		if !ok {
			return
		}
		if lang, ok := languageFromHref(href); ok {
			f.Language = &lang
			f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceLanguage, Text: lang, Kind: gallery.Structural})
		}
	case "characters":
		f.Characters = linkTexts(content)
		for _, c := range f.Characters {
			f.Tags.Add(gallery.Tag{Namespace: gallery.NamespaceCharacter, Text: c, Kind: gallery.Freeform})
		}
	case "tags":
		content.Find("a").Each(func(_ int, a *goquery.Selection) {
			f.Tags.Add(contentTag(a.AttrOr("href", ""), strings.TrimSpace(a.Text())))
		})
	}
}

// contentTag classifies a tag link. Gendered tags carry a two-character
// marker at the end of their display text, which is dropped.
func contentTag(href, text string) gallery.Tag {
	ns := gallery.NamespaceMisc
	switch {
	case strings.HasPrefix(href, "/tag/male"):
		ns = gallery.NamespaceMale
	case strings.HasPrefix(href, "/tag/female"):
		ns = gallery.NamespaceFemale
	}
	if ns != gallery.NamespaceMisc {
		text = dropLastRunes(text, genderSuffixLen)
	}
	return gallery.Tag{Namespace: ns, Text: text, Kind: gallery.Freeform}
}

// languageFromHref takes the segment between the first and second '-' of
// a language link ("/index-japanese.html") and drops the extension.
func languageFromHref(href string) (string, bool) {
	parts := strings.Split(href, "-")
	if len(parts) < 2 {
		return "", false
	}
	lang, _, _ := strings.Cut(parts[1], ".")
	if lang == "" {
		return "", false
	}
	return lang, true
}

func linkTexts(s *goquery.Selection) []string {
	var out []string
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		out = append(out, strings.TrimSpace(a.Text()))
	})
	return out
}

func dropLastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return ""
	}
	return string(r[:len(r)-n])
}

// parseDate returns nil when the text matches no known layout.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
