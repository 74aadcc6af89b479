package nozomi

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
	binfmt "github.com/kailas-cloud/gallerysrc/internal/nozomi"
	"github.com/kailas-cloud/gallerysrc/internal/transport/site"
)

const (
	compressedPrefix = "n"
	defaultLanguage  = "all"
	galleriesField   = "galleries"
	maxTreeDepth     = 64
)

// AllIDs returns every gallery id (the "index-all" bucket).
func (r *Repo) AllIDs(ctx context.Context, _ domain.VersionPair) ([]domain.ContentID, error) {
	return r.idsFromNozomi(ctx, "", "index", defaultLanguage)
}

// Lookup returns the gallery ids matching one positive search term.
// Namespaced terms ("female:maid", "language:english") read a tag nozomi
// file. Bare words are searched in the galleries B-tree at pair.Galleries.
// A word absent from the tree yields an empty result, not an error.
func (r *Repo) Lookup(ctx context.Context, term string, pair domain.VersionPair) ([]domain.ContentID, error) {
	term = strings.ReplaceAll(term, "_", " ")

	if ns, tag, ok := strings.Cut(term, ":"); ok {
		area, language := ns, defaultLanguage
		switch ns {
		case "female", "male":
			area, tag = "tag", term
		case "language":
			area, tag, language = "", "index", tag
		}
		return r.idsFromNozomi(ctx, area, tag, language)
	}

	ref, found, err := r.searchTree(ctx, binfmt.HashTerm(term), pair.Galleries)
	if err != nil {
		return nil, fmt.Errorf("search index for %q: %w", term, err)
	}
	if !found || !binfmt.ValidDataRef(ref) {
		r.logger.Debug("term not in galleries index", zap.String("term", term))
		return nil, nil
	}
	return r.idsFromData(ctx, ref, pair.Galleries)
}

// NozomiURL builds the address of a tag nozomi file. An empty area addresses
// the top-level buckets.
func NozomiURL(ltn, area, tag, language string) string {
	if area == "" {
		return fmt.Sprintf("%s/%s/%s-%s.nozomi", ltn, compressedPrefix, tag, language)
	}
	return fmt.Sprintf("%s/%s/%s/%s-%s.nozomi", ltn, compressedPrefix, area, tag, language)
}

func (r *Repo) idsFromNozomi(ctx context.Context, area, tag, language string) ([]domain.ContentID, error) {
	url := NozomiURL(r.site.LTNURL(), area, tag, language)
	body, err := r.site.Get(ctx, site.EndpointNozomi, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	ids, err := binfmt.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return ids, nil
}

// searchTree walks the galleries B-tree from the root at address 0.
func (r *Repo) searchTree(ctx context.Context, key []byte, version int64) (binfmt.DataRef, bool, error) {
	var addr uint64
	for range maxTreeDepth {
		node, err := r.nodeAt(ctx, addr, version)
		if err != nil {
			return binfmt.DataRef{}, false, err
		}
		ref, child, ok := node.Locate(key)
		if ok {
			return ref, true, nil
		}
		if node.IsLeaf() || child >= len(node.Children) || node.Children[child] == 0 {
			return binfmt.DataRef{}, false, nil
		}
		addr = node.Children[child]
	}
	return binfmt.DataRef{}, false, domain.NewFormatError(galleriesField+".index", "tree deeper than %d levels", maxTreeDepth)
}

func (r *Repo) nodeAt(ctx context.Context, addr uint64, version int64) (*binfmt.Node, error) {
	url := fmt.Sprintf("%s/%sindex/%s.%d.index", r.site.LTNURL(), galleriesField, galleriesField, version)
	start := int64(addr) //nolint:gosec // addresses fit in int64 by format
	resp, err := r.site.GetRange(ctx, site.EndpointIndex, url, start, start+binfmt.MaxNodeSize-1)
	if err != nil {
		return nil, fmt.Errorf("fetch node at %d: %w", addr, err)
	}
	node, err := binfmt.DecodeNode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode node at %d: %w", addr, err)
	}
	return node, nil
}

func (r *Repo) idsFromData(ctx context.Context, ref binfmt.DataRef, version int64) ([]domain.ContentID, error) {
	url := fmt.Sprintf("%s/%sindex/%s.%d.data", r.site.LTNURL(), galleriesField, galleriesField, version)
	start := int64(ref.Offset) //nolint:gosec // offsets fit in int64 by format
	resp, err := r.site.GetRange(ctx, site.EndpointIndex, url, start, start+int64(ref.Length)-1)
	if err != nil {
		return nil, fmt.Errorf("fetch data %s: %w", ref, err)
	}
	ids, err := binfmt.DecodeDataRecord(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode data %s: %w", ref, err)
	}
	return ids, nil
}
