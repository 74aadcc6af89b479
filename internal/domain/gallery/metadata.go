package gallery

import (
	"slices"
	"time"
)

// Fields carries the extracted values used to build a Metadata.
// Optional fields are nil when the document lacks them.
type Fields struct {
	CanonicalURL string
	Title        string
	ThumbnailURL string
	Artists      []string
	Group        *string
	Genre        *string
	Series       []string
	Language     *string
	Characters   []string
	Tags         TagSet
	Uploaded     *time.Time
}

// Metadata is the rich record extracted from a gallery document (immutable value object).
type Metadata struct {
	canonicalURL string
	title        string
	thumbnailURL string
	artists      []string
	group        *string
	genre        *string
	series       []string
	language     *string
	characters   []string
	tags         []Tag
	uploaded     *time.Time
}

// New copies f into an immutable Metadata.
func New(f *Fields) Metadata {
	return Metadata{
		canonicalURL: f.CanonicalURL,
		title:        f.Title,
		thumbnailURL: f.ThumbnailURL,
		artists:      slices.Clone(f.Artists),
		group:        clonePtr(f.Group),
		genre:        clonePtr(f.Genre),
		series:       slices.Clone(f.Series),
		language:     clonePtr(f.Language),
		characters:   slices.Clone(f.Characters),
		tags:         f.Tags.Slice(),
		uploaded:     clonePtr(f.Uploaded),
	}
}

// CanonicalURL returns the URL the document was fetched from.
func (m *Metadata) CanonicalURL() string { return m.canonicalURL }

// Title returns the gallery title.
func (m *Metadata) Title() string { return m.title }

// ThumbnailURL returns the cover image URL.
func (m *Metadata) ThumbnailURL() string { return m.thumbnailURL }

// Artists returns the artist names.
func (m *Metadata) Artists() []string { return slices.Clone(m.artists) }

// Group returns the circle/group name, if present.
func (m *Metadata) Group() (string, bool) { return deref(m.group) }

// Genre returns the gallery type (doujinshi, manga...), if present.
func (m *Metadata) Genre() (string, bool) { return deref(m.genre) }

// Series returns the parody/series names.
func (m *Metadata) Series() []string { return slices.Clone(m.series) }

// Language returns the language code, if present.
func (m *Metadata) Language() (string, bool) { return deref(m.language) }

// Characters returns the character names.
func (m *Metadata) Characters() []string { return slices.Clone(m.characters) }

// Tags returns all tags, unique on (namespace, text), in extraction order.
func (m *Metadata) Tags() []Tag { return slices.Clone(m.tags) }

// Uploaded returns the upload timestamp, if it could be parsed.
func (m *Metadata) Uploaded() (time.Time, bool) { return deref(m.uploaded) }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
