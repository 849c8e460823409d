package markdown

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-richtext/internal/mdast"
	"github.com/goliatone/go-richtext/pkg/interfaces"
	"github.com/goliatone/go-richtext/pkg/testsupport"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Sample Document" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "sample-document" || fm.Field != "body" {
		t.Fatalf("FrontMatter slug/field mismatch, got %q/%q", fm.Slug, fm.Field)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "docs" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["custom_flag"] != true {
		t.Fatalf("FrontMatter Custom flag missing: %#v", fm.Custom)
	}
	if fm.Raw["summary"] != "Sample summary goes here" {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if !strings.Contains(string(body), "# Sample Document") || strings.Contains(string(body), "slug:") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatterWithoutMetadata(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("plain *text*"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" || fm.Slug != "" {
		t.Fatalf("expected empty front matter, got %#v", fm)
	}
	if string(body) != "plain *text*" {
		t.Fatalf("expected whole input as body, got %q", body)
	}
}

func TestBuildDocumentPrefersDeclaredLocale(t *testing.T) {
	modified := time.Now().UTC()
	doc, err := BuildDocument("notes.md", "en", []byte("---\nlocale: fr\n---\nbonjour"), modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.Locale != "fr" {
		t.Fatalf("expected declared locale fr, got %q", doc.Locale)
	}
	if doc.FilePath != "notes.md" || !doc.LastModified.Equal(modified) {
		t.Fatalf("unexpected document %#v", doc)
	}
	if strings.TrimSpace(string(doc.Body)) != "bonjour" {
		t.Fatalf("unexpected body %q", doc.Body)
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}

	safe, err := parser.ParseWithOptions([]byte("a <u>b</u>"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(safe), "<u>") {
		t.Fatalf("expected raw HTML suppressed in safe mode, got %q", safe)
	}
}

func TestGoldmarkParser_ParseAST(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "heading and emphasis",
			source: "# Title\n\nHello *there* **friend**",
			want:   `root(heading[1](text:"Title"),paragraph(text:"Hello ",emphasis(text:"there"),text:" ",strong(text:"friend")))`,
		},
		{
			name:   "ordered list keeps start",
			source: "3. a\n4. b",
			want:   `root(list[ordered=true start=3](listItem(paragraph(text:"a")),listItem(paragraph(text:"b"))))`,
		},
		{
			name:   "soft break stays in text",
			source: "a\nb",
			want:   `root(paragraph(text:"a\nb"))`,
		},
		{
			name:   "code span joins lines",
			source: "a `b\nc` d",
			want:   `root(paragraph(text:"a ",inlineCode:"b c",text:" d"))`,
		},
		{
			name:   "escapes and entities resolved",
			source: `a \* b &amp; c`,
			want:   `root(paragraph(text:"a * b & c"))`,
		},
		{
			name:   "inline html",
			source: "a <u>b</u>",
			want:   `root(paragraph(text:"a ",html:"<u>",text:"b",html:"</u>"))`,
		},
		{
			name:   "html block",
			source: "<div>\nhi\n</div>",
			want:   `root(html:"<div>\nhi\n</div>")`,
		},
		{
			name:   "fenced code",
			source: "```go\nx := 1\n```",
			want:   `root(code:"x := 1")`,
		},
		{
			name:   "image alt",
			source: "![embedded-asset-block](asset-1)",
			want:   `root(paragraph(image[asset-1|embedded-asset-block]))`,
		},
		{
			name:   "strikethrough",
			source: "~~old~~",
			want:   `root(paragraph(delete(text:"old")))`,
		},
		{
			name:   "link",
			source: "[site](https://example.com)",
			want:   `root(paragraph(link[https://example.com|](text:"site")))`,
		},
		{
			name:   "blockquote and rule",
			source: "> q\n\n***",
			want:   `root(blockquote(paragraph(text:"q")),thematicBreak)`,
		},
		{
			name:   "table header becomes first row",
			source: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:   `root(table(tableRow(tableCell(text:"a"),tableCell(text:"b")),tableRow(tableCell(text:"1"),tableCell(text:"2"))))`,
		},
	}

	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := parser.ParseAST([]byte(tc.source))
			if err != nil {
				t.Fatalf("ParseAST: %v", err)
			}
			if got := dumpAST(root); got != tc.want {
				t.Fatalf("unexpected tree\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestGoldmarkParser_ParseASTUnknownNodes(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	root, err := parser.ParseAST([]byte("- [x] done"))
	if err != nil {
		t.Fatalf("ParseAST: %v", err)
	}

	var found bool
	mdast.Walk(root, func(node *mdast.Node) bool {
		if node.Type == mdast.TypeUnknown && node.Name() == "TaskCheckBox" {
			found = true
		}
		return true
	})
	if !found {
		t.Fatalf("expected task checkbox as unknown node, got %s", dumpAST(root))
	}
}

func TestGoldmarkParser_ParseASTExtensionSelection(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	root, err := parser.ParseASTWithOptions([]byte("~~old~~"), interfaces.ParseOptions{Extensions: []string{"table"}})
	if err != nil {
		t.Fatalf("ParseASTWithOptions: %v", err)
	}
	if got := dumpAST(root); strings.Contains(got, "delete") {
		t.Fatalf("expected strikethrough disabled, got %s", got)
	}
}

func TestSupportedExtensions(t *testing.T) {
	names := SupportedExtensions()
	if len(names) == 0 || names[0] != "autolink" {
		t.Fatalf("expected sorted extension names, got %v", names)
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := testsupport.LoadFixture(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

func dumpAST(node *mdast.Node) string {
	var b strings.Builder
	var walk func(*mdast.Node)
	walk = func(n *mdast.Node) {
		b.WriteString(n.Name())
		switch n.Type {
		case mdast.TypeHeading:
			fmt.Fprintf(&b, "[%d]", n.Depth)
		case mdast.TypeList:
			fmt.Fprintf(&b, "[ordered=%t start=%d]", n.Ordered, n.Start)
		case mdast.TypeLink, mdast.TypeImage:
			fmt.Fprintf(&b, "[%s|%s]", n.URL, n.Alt)
		}
		if n.Value != "" {
			fmt.Fprintf(&b, ":%q", n.Value)
		}
		if len(n.Children) > 0 {
			b.WriteString("(")
			for i, child := range n.Children {
				if i > 0 {
					b.WriteString(",")
				}
				walk(child)
			}
			b.WriteString(")")
		}
	}
	walk(node)
	return b.String()
}
