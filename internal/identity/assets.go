package identity

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/mdast"
	"github.com/goliatone/go-richtext/internal/transform"
)

// Asset is an image reference turned into an embedded asset.
type Asset struct {
	ID    string
	URL   string
	Alt   string
	Title string
}

// AssetRegistry collects the assets produced by ImageResolver so callers can
// upload them under the derived ids.
type AssetRegistry struct {
	mu     sync.Mutex
	assets map[string]Asset
}

// NewAssetRegistry constructs an empty registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{assets: make(map[string]Asset)}
}

func (r *AssetRegistry) add(asset Asset) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[asset.ID]; !ok {
		r.assets[asset.ID] = asset
	}
}

// Assets returns the registered assets ordered by id.
func (r *AssetRegistry) Assets() []Asset {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		out = append(out, asset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ImageResolver maps images that are not already embed-encoded onto
// embedded-asset-block nodes whose link id is AssetID(url). Images without a
// URL and every other node type are left to the next resolver. registry may
// be nil.
func ImageResolver(registry *AssetRegistry) transform.FallbackResolver {
	return func(_ context.Context, node *mdast.Node, _ *transform.ActiveMarks) ([]document.Node, error) {
		if node == nil || node.Type != mdast.TypeImage {
			return nil, nil
		}
		url := strings.TrimSpace(node.URL)
		if url == "" {
			return nil, nil
		}
		id := AssetID(url)
		registry.add(Asset{ID: id, URL: url, Alt: node.Alt, Title: node.Title})
		return []document.Node{document.EmbeddedAsset(id)}, nil
	}
}
