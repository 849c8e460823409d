package identity

import (
	"context"
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/mdast"
	"github.com/goliatone/go-richtext/internal/transform"
)

func TestDeterministicIDs(t *testing.T) {
	if AssetID("img/logo.png") != AssetID(" img/logo.png ") {
		t.Fatalf("expected asset ids to ignore surrounding space")
	}
	if AssetID("img/logo.png") == AssetID("img/other.png") {
		t.Fatalf("expected distinct sources to yield distinct ids")
	}
	if EntryID("Intro") != EntryID("intro") {
		t.Fatalf("expected entry ids to be case insensitive")
	}
	if id := AssetID("x"); len(id) != 32 {
		t.Fatalf("expected compact 32 char id, got %q", id)
	}
	if FieldUUID("a/body/en") != FieldUUID("a/body/en") || FieldUUID("a/body/en") == FieldUUID("a/body/fr") {
		t.Fatalf("expected stable field uuids per key")
	}
	if UUID("  ").String() != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected nil uuid for blank keys")
	}
}

func TestImageResolverEmbedsImages(t *testing.T) {
	registry := NewAssetRegistry()
	transformer := transform.New(transform.WithResolver(ImageResolver(registry)))

	root := mdast.Root(
		&mdast.Node{Type: mdast.TypeImage, URL: "img/logo.png", Alt: "Logo"},
		&mdast.Node{Type: mdast.TypeImage, URL: "img/logo.png", Alt: "Logo again"},
		&mdast.Node{Type: mdast.TypeImage, Alt: "no url"},
	)
	doc, err := transformer.Transform(context.Background(), root)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	id := AssetID("img/logo.png")
	if len(doc.Content) != 2 {
		t.Fatalf("expected two embeds, got %d", len(doc.Content))
	}
	for _, node := range doc.Content {
		if node.Kind != document.KindEmbeddedAsset || node.Data.Target.ID != id {
			t.Fatalf("unexpected node %#v", node)
		}
	}

	assets := registry.Assets()
	if len(assets) != 1 || assets[0].URL != "img/logo.png" || assets[0].Alt != "Logo" {
		t.Fatalf("unexpected registry %#v", assets)
	}
}

func TestImageResolverLeavesEmbedEncodedImagesToDefaults(t *testing.T) {
	transformer := transform.New(transform.WithResolver(ImageResolver(nil)))
	root := mdast.Root(&mdast.Node{Type: mdast.TypeImage, URL: "asset-1", Alt: "embedded-asset-block"})

	doc, err := transformer.Transform(context.Background(), root)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Data.Target.ID != "asset-1" {
		t.Fatalf("expected embed id kept, got %#v", doc.Content)
	}
}
