package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseKindAndHeadingLevels(t *testing.T) {
	kind, ok := ParseKind("heading-3")
	if !ok || kind != KindHeading3 {
		t.Fatalf("expected heading-3, got %v (%v)", kind, ok)
	}
	if kind.HeadingLevel() != 3 {
		t.Fatalf("expected level 3, got %d", kind.HeadingLevel())
	}
	if _, ok := HeadingKind(7); ok {
		t.Fatalf("expected level 7 to be rejected")
	}
	if _, ok := ParseKind("video"); ok {
		t.Fatalf("expected unknown kind to be rejected")
	}
	if !KindHyperlink.IsInline() || KindHyperlink.IsBlock() {
		t.Fatalf("hyperlink must be inline")
	}
	if !KindTableCell.IsBlock() {
		t.Fatalf("table-cell must be a block")
	}
}

func TestConstructorsCopyContent(t *testing.T) {
	children := []Node{Text("a")}
	para := Paragraph(children...)
	children[0] = Text("mutated")

	if para.Content[0].Value != "a" {
		t.Fatalf("paragraph shares storage with caller: %q", para.Content[0].Value)
	}

	prefixed := para.Content[0].WithValue("1. a")
	if para.Content[0].Value != "a" || prefixed.Value != "1. a" {
		t.Fatalf("WithValue must not edit the original node")
	}
}

func TestJSONWireShape(t *testing.T) {
	doc := NewDocument(
		Paragraph(
			Text("hello ", MarkBold, MarkItalic),
			Hyperlink("https://example.com", Text("site")),
		),
		EmbeddedAsset("assetXYZ"),
	)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"nodeType":"document"`,
		`"marks":[{"type":"bold"},{"type":"italic"}]`,
		`"data":{"uri":"https://example.com"}`,
		`"target":{"sys":{"type":"Link","linkType":"Asset","id":"assetXYZ"}}`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal decoded: %v", err)
	}
	if string(again) != got {
		t.Fatalf("round trip mismatch:\n%s\n%s", got, again)
	}

	embed := decoded.Content[1]
	if embed.Kind != KindEmbeddedAsset || embed.Data.Target == nil || embed.Data.Target.Kind != LinkAsset {
		t.Fatalf("unexpected embed %+v", embed)
	}
}

func TestDecodePreservesUnknownKinds(t *testing.T) {
	raw := `{"nodeType":"document","data":{},"content":[{"nodeType":"video-block","data":{},"content":[]}]}`

	doc, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Content[0].Kind != KindUnknown {
		t.Fatalf("expected unknown kind, got %v", doc.Content[0].Kind)
	}
	if doc.Content[0].KindName() != "video-block" {
		t.Fatalf("expected raw kind name preserved, got %q", doc.Content[0].KindName())
	}
}

func TestPlainText(t *testing.T) {
	doc := NewDocument(Paragraph(Text("a"), Hyperlink("u", Text("b"))), Paragraph(Text("c")))
	if got := doc.PlainText(); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
