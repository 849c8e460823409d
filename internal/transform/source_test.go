package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/mdast"
)

type stubParser struct {
	source string
	root   *mdast.Node
	err    error
}

func (s *stubParser) ParseAST(source []byte) (*mdast.Node, error) {
	s.source = string(source)
	return s.root, s.err
}

func TestPrepareSourceMovesBoldMarkerBeforeFullStop(t *testing.T) {
	got := PrepareSource("**重要。**次")
	if got != "**重要**。次" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if PrepareSource("plain. **text**") != "plain. **text**" {
		t.Fatalf("ascii input must be left untouched")
	}
}

func TestFromMarkdownPreparesParsesAndNormalizes(t *testing.T) {
	parser := &stubParser{root: mdast.Root(para(
		mdast.Text("x"),
		&mdast.Node{Type: mdast.TypeImage, URL: "a1", Alt: "embedded-asset-block"},
	))}

	doc, err := New().FromMarkdown(context.Background(), parser, "a。**b**")
	if err != nil {
		t.Fatalf("from markdown: %v", err)
	}
	if parser.source != "a**。b**" {
		t.Fatalf("expected prepared source, got %q", parser.source)
	}
	assertDocument(t, doc,
		document.Paragraph(document.Text("x")),
		document.EmbeddedAsset("a1"),
	)
}

func TestFromMarkdownErrors(t *testing.T) {
	if _, err := New().FromMarkdown(context.Background(), nil, "x"); !errors.Is(err, ErrParserRequired) {
		t.Fatalf("expected ErrParserRequired, got %v", err)
	}

	boom := errors.New("parse failed")
	if _, err := New().FromMarkdown(context.Background(), &stubParser{err: boom}, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected parser error unchanged, got %v", err)
	}
}
