package htmlimport_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/htmlimport"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const page = `<html><head><title>T</title><style>p{}</style></head><body>
<nav>menu</nav>
<main><h1>Guide</h1><p>Hello <strong>world</strong></p><script>alert(1)</script></main>
<footer>footer</footer>
</body></html>`

func TestConverterToMarkdown(t *testing.T) {
	got, err := htmlimport.New().ToMarkdown(page)
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if !strings.Contains(got, "# Guide") || !strings.Contains(got, "Hello **world**") {
		t.Fatalf("unexpected markdown %q", got)
	}
	for _, noise := range []string{"menu", "footer", "alert"} {
		if strings.Contains(got, noise) {
			t.Fatalf("expected %q stripped, got %q", noise, got)
		}
	}
}

func TestConverterExtractFallsBackToBody(t *testing.T) {
	got, err := htmlimport.New(htmlimport.WithNoiseSelectors("aside")).Extract(`<body><aside>x</aside><p>kept</p></body>`)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "<p>kept</p>" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestConverterFromHTML(t *testing.T) {
	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	doc, err := htmlimport.New().FromHTML(context.Background(), page, nil, parser)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if len(doc.Content) != 2 {
		t.Fatalf("expected heading and paragraph, got %d blocks", len(doc.Content))
	}
	if doc.Content[0].Kind != document.KindHeading1 || doc.Content[0].PlainText() != "Guide" {
		t.Fatalf("unexpected heading %#v", doc.Content[0])
	}
	bold := doc.Content[1].Content[1]
	if bold.Value != "world" || !bold.HasMark(document.MarkBold) {
		t.Fatalf("unexpected bold text %#v", bold)
	}
}
