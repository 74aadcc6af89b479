package domain

// IndexFamily names one independently versioned index on the remote site.
type IndexFamily string

const (
	// TagIndex versions the per-field tag B-trees.
	TagIndex IndexFamily = "tagindex"
	// GalleriesIndex versions the galleries B-tree and data file.
	GalleriesIndex IndexFamily = "galleriesindex"
)

// VersionPair is the pair of index versions captured for one query resolution.
type VersionPair struct {
	Tag       int64
	Galleries int64
}

// Summary is the minimal record needed to render a listing entry.
type Summary struct {
	ID           ContentID
	Title        string
	ThumbnailURL string
	DetailURL    string
}

// Listing is one page of summaries.
type Listing struct {
	Page        int
	Items       []Summary
	HasNextPage bool
}
