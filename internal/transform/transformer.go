// Package transform converts a normalized Markdown syntax tree into a rich-text
// document. Marks accumulate while descending through emphasis-like wrappers,
// node types are mapped through a static table, and anything the table does not
// cover goes through a built-in fallback before reaching the caller's resolver.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/mdast"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// FallbackResolver handles syntax nodes the transformer has no rule for. It
// receives the marks active at the node's sibling level and may edit them. A
// nil or empty result drops the node; a returned error aborts the transform
// and is passed back to the caller unchanged.
type FallbackResolver func(ctx context.Context, node *mdast.Node, marks *ActiveMarks) ([]document.Node, error)

// NoopResolver drops every node handed to it.
func NoopResolver(context.Context, *mdast.Node, *ActiveMarks) ([]document.Node, error) {
	return nil, nil
}

// Chain tries resolvers in order and returns the first non-empty result.
func Chain(resolvers ...FallbackResolver) FallbackResolver {
	return func(ctx context.Context, node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
		for _, resolver := range resolvers {
			if resolver == nil {
				continue
			}
			nodes, err := resolver(ctx, node, marks)
			if err != nil || len(nodes) > 0 {
				return nodes, err
			}
		}
		return nil, nil
	}
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithResolver installs the caller fallback resolver.
func WithResolver(resolver FallbackResolver) Option {
	return func(t *Transformer) {
		if resolver != nil {
			t.resolver = resolver
		}
	}
}

// WithLogger overrides the logger used to report dropped nodes.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transformer is stateless between calls and safe for concurrent use; every
// Transform call builds its own traversal state.
type Transformer struct {
	resolver FallbackResolver
	logger   interfaces.Logger
}

// New constructs a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		resolver: NoopResolver,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Transform converts root into a document node. root is expected to be the
// output of mdast.Normalize; only its children are transformed.
func (t *Transformer) Transform(ctx context.Context, root *mdast.Node) (document.Node, error) {
	if root == nil {
		return document.NewDocument(), nil
	}
	st := t.newState(ctx)
	content, err := st.nodes(root.Children, NewActiveMarks())
	if err != nil {
		return document.Node{}, err
	}
	if released := st.releaseAnchor(); len(released) > 0 {
		content = append(content, document.Paragraph(released...))
	}
	return document.NewDocument(content...), nil
}

// TransformNode converts a single syntax node under marks. It is the
// recursive step of Transform exposed for resolvers that need to convert a
// subtree; it starts a fresh traversal state.
func (t *Transformer) TransformNode(ctx context.Context, node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	if marks == nil {
		marks = NewActiveMarks()
	}
	st := t.newState(ctx)
	produced, err := st.node(node, marks)
	if err != nil {
		return nil, err
	}
	return append(produced, st.releaseAnchor()...), nil
}

func (t *Transformer) newState(ctx context.Context) *state {
	if ctx == nil {
		ctx = context.Background()
	}
	return &state{
		ctx:      ctx,
		resolver: t.resolver,
		logger:   t.logger,
	}
}

// state is the traversal context of one top-level call.
type state struct {
	ctx      context.Context
	resolver FallbackResolver
	logger   interfaces.Logger

	tableRows int
	anchor    *anchorCapture
}

// anchorCapture buffers the text nodes emitted between an opening <a ...>
// fragment and its </a>. The capture spans nesting levels: while it is open,
// every sibling list keeps only the text nodes its children produce.
type anchorCapture struct {
	open     string
	children []document.Node
}

func (s *state) nodes(children []*mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	out := make([]document.Node, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		produced, err := s.node(child, marks)
		if err != nil {
			return nil, err
		}
		if s.anchor != nil {
			for _, node := range produced {
				if node.IsText() {
					s.anchor.children = append(s.anchor.children, node)
				}
			}
			continue
		}
		out = append(out, produced...)
	}
	return out, nil
}

// releaseAnchor ends a capture whose </a> never arrived and returns the text
// it buffered.
func (s *state) releaseAnchor() []document.Node {
	if s.anchor == nil {
		return nil
	}
	s.logger.Debug("transform.anchor.unterminated", "open", s.anchor.open, "buffered", len(s.anchor.children))
	released := s.anchor.children
	s.anchor = nil
	return released
}

func (s *state) node(node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case node.Type == mdast.TypeLink:
		return s.hyperlink(node, marks)
	case node.Type == mdast.TypeTableCell:
		return s.tableCell(node, marks)
	}
	if kind, ok := blockKind(node); ok {
		return s.block(kind, node, marks)
	}
	if mark, ok := markTypes[node.Type]; ok || node.Type == mdast.TypeText {
		return s.text(node, mark, ok, marks)
	}
	return s.fallback(node, marks)
}

func (s *state) hyperlink(node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	content, err := s.nodes(node.Children, marks)
	if err != nil {
		return nil, err
	}
	return []document.Node{document.Hyperlink(node.URL, content...)}, nil
}

func (s *state) tableCell(node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	kind := document.KindTableCell
	if s.tableRows == 1 {
		kind = document.KindTableHeaderCell
	}

	children, err := s.nodes(node.Children, marks)
	if err != nil {
		return nil, err
	}

	content := make([]document.Node, 0, len(children))
	for _, child := range children {
		content = append(content, document.Paragraph(child))
	}
	if len(content) == 0 {
		content = append(content, document.Paragraph(document.Text("")))
	}
	return []document.Node{document.NewBlock(kind, content...)}, nil
}

func (s *state) block(kind document.Kind, node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	switch kind {
	case document.KindTable:
		s.tableRows = 0
	case document.KindTableRow:
		s.tableRows++
	}

	content, err := s.nodes(node.Children, marks)
	if err != nil {
		return nil, err
	}

	if kind == document.KindOrderedList {
		if collapsed, ok := collapseSingleItem(content, node.Start); ok {
			return []document.Node{collapsed}, nil
		}
	}
	return []document.Node{document.NewBlock(kind, content...)}, nil
}

// collapseSingleItem turns an ordered list holding one item whose only content
// is a paragraph into that paragraph, numbering its first text node.
func collapseSingleItem(content []document.Node, start int) (document.Node, bool) {
	if len(content) != 1 || content[0].Kind != document.KindListItem {
		return document.Node{}, false
	}
	item := content[0]
	if len(item.Content) != 1 || item.Content[0].Kind != document.KindParagraph {
		return document.Node{}, false
	}

	inline := item.Content[0].Content
	replaced := make([]document.Node, len(inline))
	copy(replaced, inline)
	if len(replaced) > 0 && replaced[0].IsText() {
		replaced[0] = replaced[0].WithValue(fmt.Sprintf("%d. %s", start, replaced[0].Value))
	}
	return document.Paragraph(replaced...), true
}

func (s *state) text(node *mdast.Node, mark document.Mark, wraps bool, marks *ActiveMarks) ([]document.Node, error) {
	applied := marks
	if wraps {
		applied = marks.With(mark)
	}

	if node.Type != mdast.TypeText && !node.IsLeaf() {
		return s.nodes(node.Children, applied)
	}
	if node.Value == "" {
		return nil, nil
	}
	return []document.Node{document.Text(node.Value, applied.List()...)}, nil
}

func (s *state) fallback(node *mdast.Node, marks *ActiveMarks) ([]document.Node, error) {
	if produced := s.defaultFallback(node, marks); len(produced) > 0 {
		return produced, nil
	}

	produced, err := s.resolver(s.ctx, node, marks)
	if err != nil {
		return nil, err
	}
	if len(produced) == 0 {
		s.logger.Trace("transform.node.dropped", "type", node.Name())
	}
	return produced, nil
}

// defaultFallback covers the inline HTML fragments the grammar leaves raw
// (underline toggles and anchors) plus image-encoded embeds. Underline and
// anchor openings only change state and yield nothing, so the caller's
// resolver still sees those nodes.
func (s *state) defaultFallback(node *mdast.Node, marks *ActiveMarks) []document.Node {
	if node.Type == mdast.TypeHTML {
		value := strings.TrimSpace(node.Value)
		switch {
		case strings.EqualFold(value, "<u>"):
			marks.Push(document.MarkUnderline)
		case strings.EqualFold(value, "</u>"):
			marks.Remove(document.MarkUnderline)
		case anchorOpen.MatchString(value):
			s.anchor = &anchorCapture{open: value}
		case strings.EqualFold(value, "</a>"):
			return s.closeAnchor()
		}
		return nil
	}

	if node.Type == mdast.TypeImage {
		if kind, ok := embedKinds[node.Alt]; ok {
			return []document.Node{document.Embedded(kind.kind, document.NewLink(node.URL, kind.link))}
		}
	}
	return nil
}

func (s *state) closeAnchor() []document.Node {
	if s.anchor == nil {
		return nil
	}
	captured := s.anchor
	s.anchor = nil
	return []document.Node{document.Hyperlink(hrefOf(captured.open), captured.children...)}
}
