package gallery

// TagKind separates site structure (artist, group, series...) from freeform tags.
type TagKind int

const (
	// Freeform tags are user-assigned descriptors (characters, content tags).
	Freeform TagKind = iota
	// Structural tags mirror a structural field of the gallery (artist, group, type, series, language).
	Structural
)

func (k TagKind) String() string {
	if k == Structural {
		return "structural"
	}
	return "freeform"
}

// Tag namespaces used by the gallery documents.
const (
	NamespaceArtist    = "artist"
	NamespaceGroup     = "group"
	NamespaceType      = "type"
	NamespaceSeries    = "series"
	NamespaceLanguage  = "language"
	NamespaceCharacter = "character"
	NamespaceMale      = "male"
	NamespaceFemale    = "female"
	NamespaceMisc      = "misc"
)

// Tag is a namespaced gallery tag.
type Tag struct {
	Namespace string
	Text      string
	Kind      TagKind
}

type tagKey struct{ ns, text string }

// TagSet keeps tags in insertion order, unique on (namespace, text).
// The first insertion of a key wins.
type TagSet struct {
	tags []Tag
	seen map[tagKey]struct{}
}

// Add inserts t unless a tag with the same namespace and text is present.
// Reports whether t was added.
func (s *TagSet) Add(t Tag) bool {
	if s.seen == nil {
		s.seen = make(map[tagKey]struct{})
	}
	k := tagKey{t.Namespace, t.Text}
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	s.tags = append(s.tags, t)
	return true
}

// Len returns the number of distinct tags.
func (s *TagSet) Len() int { return len(s.tags) }

// Slice returns a copy of the tags in insertion order.
func (s *TagSet) Slice() []Tag {
	out := make([]Tag, len(s.tags))
	copy(out, s.tags)
	return out
}
