package gallery

// PageRef is one page of a gallery. Index is dense and zero-based.
// ImageURL is empty until resolved on demand.
type PageRef struct {
	Index    int
	Hash     string
	ImageURL string
}
