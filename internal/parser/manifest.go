package parser

import (
	"bytes"
	"encoding/json"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	"github.com/kailas-cloud/gallerysrc/internal/domain/gallery"
)

var manifestPrefix = []byte("var galleryinfo = ")

type manifest struct {
	Files []struct {
		Hash string `json:"hash"`
	} `json:"files"`
}

// ParseManifest reads the gallery script literal into dense page refs.
// Anything after the JSON object (a trailing ';') is ignored.
func ParseManifest(body []byte) ([]gallery.PageRef, error) {
	body = bytes.TrimPrefix(bytes.TrimSpace(body), manifestPrefix)

	var m manifest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&m); err != nil {
		return nil, domain.NewFormatError("galleryinfo", "decode: %v", err)
	}

	pages := make([]gallery.PageRef, len(m.Files))
	for i, f := range m.Files {
		if f.Hash == "" {
			return nil, domain.NewFormatError("galleryinfo", "file %d has no hash", i)
		}
		pages[i] = gallery.PageRef{Index: i, Hash: f.Hash}
	}
	return pages, nil
}
