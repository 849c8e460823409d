package transform

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/mdast"
)

// ErrParserRequired is returned when FromMarkdown is called without a parser.
var ErrParserRequired = errors.New("transform: markdown parser is required")

// Parser turns Markdown source into the generic syntax tree.
type Parser interface {
	ParseAST(source []byte) (*mdast.Node, error)
}

// PrepareSource applies input-level rewrites that must happen before parsing.
// Emphasis markers directly after an ideographic full stop are not recognised
// as left-flanking by CommonMark grammars, so "。**" is swapped to "**。".
func PrepareSource(markdown string) string {
	return strings.ReplaceAll(markdown, "。**", "**。")
}

// FromMarkdown parses markdown, normalizes the tree and transforms it. Parser
// errors are returned unchanged.
func (t *Transformer) FromMarkdown(ctx context.Context, parser Parser, markdown string) (document.Node, error) {
	if parser == nil {
		return document.Node{}, ErrParserRequired
	}
	root, err := parser.ParseAST([]byte(PrepareSource(markdown)))
	if err != nil {
		return document.Node{}, err
	}
	return t.Transform(ctx, mdast.Normalize(root))
}
