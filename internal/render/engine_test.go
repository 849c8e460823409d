package render

import (
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
)

func TestRenderAppliesMarksInAttachmentOrder(t *testing.T) {
	opts := Options{Marks: map[document.Mark]MarkRenderer{
		document.MarkBold:   MarkRendererFunc(func(s string) string { return "B(" + s + ")" }),
		document.MarkItalic: MarkRendererFunc(func(s string) string { return "I(" + s + ")" }),
	}}

	if got := RenderNode(document.Text("x", document.MarkBold, document.MarkItalic), opts); got != "I(B(x))" {
		t.Fatalf("expected marks folded in order, got %q", got)
	}
	if got := RenderNode(document.Text("x", document.MarkItalic, document.MarkBold), opts); got != "B(I(x))" {
		t.Fatalf("expected marks folded in order, got %q", got)
	}
	if got := RenderNode(document.Text("x", document.MarkSubscript), opts); got != "x" {
		t.Fatalf("expected unregistered mark to be skipped, got %q", got)
	}
}

func TestRenderDropsKindsWithoutRenderer(t *testing.T) {
	opts := Options{Nodes: map[document.Kind]NodeRenderer{
		document.KindParagraph: NodeRendererFunc(func(node document.Node, next Next) string {
			return "[" + next(node.Content) + "]"
		}),
	}}

	unknown, err := document.Decode([]byte(`{"nodeType":"video-block","data":{},"content":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := Render([]document.Node{
		document.Paragraph(document.Text("a"), document.Hyperlink("u", document.Text("b"))),
		unknown,
		document.NewBlock(document.KindHR),
		document.Paragraph(document.Text("c")),
	}, opts)
	if got != "[a][c]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestMergeOverridesWithoutTouchingInputs(t *testing.T) {
	base := Options{
		Nodes: map[document.Kind]NodeRenderer{
			document.KindParagraph: NodeRendererFunc(func(document.Node, Next) string { return "base" }),
			document.KindHR:        NodeRendererFunc(func(document.Node, Next) string { return "hr" }),
		},
		Marks: map[document.Mark]MarkRenderer{
			document.MarkBold: MarkRendererFunc(func(s string) string { return "b" + s }),
		},
	}
	overrides := Options{
		Nodes: map[document.Kind]NodeRenderer{
			document.KindParagraph: NodeRendererFunc(func(document.Node, Next) string { return "override" }),
			document.KindHR:        nil,
		},
		Marks: map[document.Mark]MarkRenderer{
			document.MarkCode: MarkRendererFunc(func(s string) string { return "c" + s }),
		},
	}

	merged := base.Merge(overrides)
	doc := []document.Node{
		document.Paragraph(),
		document.NewBlock(document.KindHR),
		document.Text("x", document.MarkBold, document.MarkCode),
	}
	if got := Render(doc, merged); got != "overridehrcbx" {
		t.Fatalf("unexpected merged output %q", got)
	}
	if got := Render(doc[:1], base); got != "base" {
		t.Fatalf("base options modified by merge: %q", got)
	}
	if len(base.Marks) != 1 {
		t.Fatalf("base marks modified by merge")
	}
}
