package markdown

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/render"
	"github.com/goliatone/go-richtext/internal/transform"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

func fromMarkdown(t *testing.T, source string) document.Node {
	t.Helper()
	doc, err := transform.New().FromMarkdown(context.Background(), NewGoldmarkParser(interfaces.ParseOptions{}), source)
	if err != nil {
		t.Fatalf("FromMarkdown(%q): %v", source, err)
	}
	return doc
}

func assertConverted(t *testing.T, source string, want document.Node) {
	t.Helper()
	got := fromMarkdown(t, source)
	if !reflect.DeepEqual(got, want) {
		gotJSON, _ := document.Encode(got)
		wantJSON, _ := document.Encode(want)
		t.Fatalf("unexpected document for %q\n got: %s\nwant: %s", source, gotJSON, wantJSON)
	}
}

func TestFromMarkdownInlineFormatting(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   document.Node
	}{
		{
			name:   "plain text",
			source: "hello world",
			want:   document.NewDocument(document.Paragraph(document.Text("hello world"))),
		},
		{
			name:   "bold italic",
			source: "**_bold italic_**",
			want: document.NewDocument(document.Paragraph(
				document.Text("bold italic", document.MarkBold, document.MarkItalic),
			)),
		},
		{
			name:   "inline code",
			source: "run `make`",
			want: document.NewDocument(document.Paragraph(
				document.Text("run "),
				document.Text("make", document.MarkCode),
			)),
		},
		{
			name:   "strikethrough",
			source: "~~old~~",
			want:   document.NewDocument(document.Paragraph(document.Text("old", document.MarkStrikethrough))),
		},
		{
			name:   "underline tags",
			source: "a <u>b</u> c",
			want: document.NewDocument(document.Paragraph(
				document.Text("a "),
				document.Text("b", document.MarkUnderline),
				document.Text(" c"),
			)),
		},
		{
			name:   "raw anchor",
			source: `see <a href="https://x.io">site</a> now`,
			want: document.NewDocument(document.Paragraph(
				document.Text("see "),
				document.Hyperlink("https://x.io", document.Text("site")),
				document.Text(" now"),
			)),
		},
		{
			name:   "anchor opened inside emphasis",
			source: `*<a href="x">foo*</a> tail`,
			want: document.NewDocument(document.Paragraph(
				document.Hyperlink("x", document.Text("foo", document.MarkItalic)),
				document.Text(" tail"),
			)),
		},
		{
			name:   "markdown link",
			source: "[site](https://x.io)",
			want: document.NewDocument(document.Paragraph(
				document.Hyperlink("https://x.io", document.Text("site")),
			)),
		},
		{
			name:   "blockquote flattens to code",
			source: "> quoted",
			want:   document.NewDocument(document.Paragraph(document.Text("quoted", document.MarkCode))),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertConverted(t, tc.source, tc.want)
		})
	}
}

func TestFromMarkdownBlocks(t *testing.T) {
	assertConverted(t, "## Title\n\ntext\n\n***", document.NewDocument(
		document.Heading(2, document.Text("Title")),
		document.Paragraph(document.Text("text")),
		document.NewBlock(document.KindHR),
	))

	assertConverted(t, "- a\n- b", document.NewDocument(
		document.NewBlock(document.KindUnorderedList,
			document.NewBlock(document.KindListItem, document.Paragraph(document.Text("a"))),
			document.NewBlock(document.KindListItem, document.Paragraph(document.Text("b"))),
		),
	))
}

func TestFromMarkdownCollapsesSingleOrderedItem(t *testing.T) {
	assertConverted(t, "1. foo", document.NewDocument(document.Paragraph(document.Text("1. foo"))))
	assertConverted(t, "7. seven", document.NewDocument(document.Paragraph(document.Text("7. seven"))))

	two := fromMarkdown(t, "1. a\n2. b")
	if len(two.Content) != 1 || two.Content[0].Kind != document.KindOrderedList {
		t.Fatalf("expected a two item list to stay a list, got %#v", two.Content)
	}
}

func TestFromMarkdownTable(t *testing.T) {
	source := "| a | b |\n|---|---|\n| 1 |   |"
	cell := func(kind document.Kind, text string) document.Node {
		return document.NewBlock(kind, document.Paragraph(document.Text(text)))
	}
	assertConverted(t, source, document.NewDocument(
		document.NewBlock(document.KindTable,
			document.NewBlock(document.KindTableRow,
				cell(document.KindTableHeaderCell, "a"),
				cell(document.KindTableHeaderCell, "b"),
			),
			document.NewBlock(document.KindTableRow,
				cell(document.KindTableCell, "1"),
				cell(document.KindTableCell, ""),
			),
		),
	))

	rendered := render.ToMarkdown(fromMarkdown(t, source))
	lines := strings.Split(rendered, "\n")
	if len(lines) < 3 || lines[1] != "|--|--|" {
		t.Fatalf("expected separator after the header row, got %q", rendered)
	}
}

func TestFromMarkdownEmbeddedAssetRoundTrip(t *testing.T) {
	source := "![embedded-asset-block](assetXYZ)"
	doc := fromMarkdown(t, source)
	want := document.NewDocument(document.EmbeddedAsset("assetXYZ"))
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("unexpected document %#v", doc)
	}
	if got := strings.TrimSpace(render.ToMarkdown(doc)); got != source {
		t.Fatalf("expected round trip to %q, got %q", source, got)
	}
}

func TestFromMarkdownImageBetweenText(t *testing.T) {
	assertConverted(t, "before ![embedded-entry-block](entry-1) after", document.NewDocument(
		document.Paragraph(document.Text("before ")),
		document.EmbeddedEntry("entry-1"),
		document.Paragraph(document.Text(" after")),
	))
}

func TestFromMarkdownDropsUnresolvedImages(t *testing.T) {
	assertConverted(t, "![diagram](diagram.png)", document.NewDocument())
}

func TestPlainTextRoundTrip(t *testing.T) {
	first := fromMarkdown(t, "just some words")
	second := fromMarkdown(t, render.ToMarkdown(first))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected plain text to survive a round trip\nfirst: %#v\nsecond: %#v", first, second)
	}
}
