package gallerysrc

import (
	"time"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	domgallery "github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

// Summary is one listing entry.
type Summary struct {
	ID           int32
	Title        string
	ThumbnailURL string // empty when the site shows no cover
	DetailURL    string // site-relative path of the gallery document
}

// Listing is one page of summaries.
type Listing struct {
	Page        int
	Items       []Summary
	HasNextPage bool
}

// TagKind separates structural tags (artist, group, series...) from freeform ones.
type TagKind string

// Tag kind constants.
const (
	TagStructural TagKind = "structural"
	TagFreeform   TagKind = "freeform"
)

// Tag is a namespaced gallery tag.
type Tag struct {
	Namespace string
	Text      string
	Kind      TagKind
}

// Gallery is the full metadata record of one gallery. Optional scalar
// fields are empty when the site does not state them.
type Gallery struct {
	URL          string
	Title        string
	ThumbnailURL string
	Artists      []string
	Group        string
	Genre        string
	Series       []string
	Language     string
	Characters   []string
	Tags         []Tag
	Uploaded     *time.Time
}

// Page is one page of a gallery. ImageURL is set only when resolution was requested.
type Page struct {
	Index    int
	Hash     string
	ImageURL string
}

func fromListing(l domain.Listing) Listing {
	out := Listing{Page: l.Page, Items: make([]Summary, len(l.Items)), HasNextPage: l.HasNextPage}
	for i, s := range l.Items {
		out.Items[i] = Summary{
			ID:           int32(s.ID),
			Title:        s.Title,
			ThumbnailURL: s.ThumbnailURL,
			DetailURL:    s.DetailURL,
		}
	}
	return out
}

func fromMetadata(m *domgallery.Metadata) Gallery {
	g := Gallery{
		URL:          m.CanonicalURL(),
		Title:        m.Title(),
		ThumbnailURL: m.ThumbnailURL(),
		Artists:      m.Artists(),
		Series:       m.Series(),
		Characters:   m.Characters(),
	}
	g.Group, _ = m.Group()
	g.Genre, _ = m.Genre()
	g.Language, _ = m.Language()
	if t, ok := m.Uploaded(); ok {
		g.Uploaded = &t
	}
	for _, t := range m.Tags() {
		g.Tags = append(g.Tags, Tag{Namespace: t.Namespace, Text: t.Text, Kind: TagKind(t.Kind.String())})
	}
	return g
}

func fromPages(refs []domgallery.PageRef) []Page {
	out := make([]Page, len(refs))
	for i, r := range refs {
		out[i] = Page(r)
	}
	return out
}
