package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-richtext/internal/mdast"
)

// toGeneric maps a goldmark document onto the generic syntax tree. Goldmark
// node kinds without a generic counterpart become unknown nodes carrying the
// goldmark kind name and their converted children.
func toGeneric(doc ast.Node, source []byte) *mdast.Node {
	c := converter{source: source}
	return mdast.Root(c.children(doc)...)
}

type converter struct {
	source []byte
}

func (c converter) children(parent ast.Node) []*mdast.Node {
	out := make([]*mdast.Node, 0, parent.ChildCount())
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = appendMerged(out, c.convert(child)...)
	}
	return out
}

func (c converter) convert(n ast.Node) []*mdast.Node {
	switch node := n.(type) {
	case *ast.Heading:
		return one(&mdast.Node{Type: mdast.TypeHeading, Depth: node.Level, Children: c.children(node)})
	case *ast.Paragraph, *ast.TextBlock:
		return one(mdast.Parent(mdast.TypeParagraph, c.children(node)...))
	case *ast.Text:
		return c.text(node)
	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return one(mdast.Text(string(node.Value)))
	case *ast.Emphasis:
		kind := mdast.TypeEmphasis
		if node.Level >= 2 {
			kind = mdast.TypeStrong
		}
		return one(mdast.Parent(kind, c.children(node)...))
	case *ast.CodeSpan:
		return one(mdast.Literal(mdast.TypeInlineCode, c.codeSpan(node)))
	case *ast.Link:
		return one(&mdast.Node{
			Type:     mdast.TypeLink,
			URL:      string(node.Destination),
			Title:    string(node.Title),
			Children: c.children(node),
		})
	case *ast.AutoLink:
		return one(&mdast.Node{
			Type:     mdast.TypeLink,
			URL:      string(node.URL(c.source)),
			Children: []*mdast.Node{mdast.Text(string(node.Label(c.source)))},
		})
	case *ast.Image:
		return one(&mdast.Node{
			Type:  mdast.TypeImage,
			URL:   string(node.Destination),
			Title: string(node.Title),
			Alt:   c.plainText(node),
		})
	case *ast.RawHTML:
		return one(mdast.Literal(mdast.TypeHTML, c.segments(node.Segments)))
	case *ast.HTMLBlock:
		value := c.segments(node.Lines())
		if node.HasClosure() {
			value += string(node.ClosureLine.Value(c.source))
		}
		return one(mdast.Literal(mdast.TypeHTML, strings.TrimRight(value, "\n")))
	case *ast.ThematicBreak:
		return one(&mdast.Node{Type: mdast.TypeThematicBreak})
	case *ast.Blockquote:
		return one(mdast.Parent(mdast.TypeBlockquote, c.children(node)...))
	case *ast.List:
		return one(&mdast.Node{
			Type:     mdast.TypeList,
			Ordered:  node.IsOrdered(),
			Start:    node.Start,
			Children: c.children(node),
		})
	case *ast.ListItem:
		return one(mdast.Parent(mdast.TypeListItem, c.children(node)...))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return one(mdast.Literal(mdast.TypeCode, strings.TrimSuffix(c.segments(node.Lines()), "\n")))
	case *east.Table:
		return one(mdast.Parent(mdast.TypeTable, c.children(node)...))
	case *east.TableHeader, *east.TableRow:
		return one(mdast.Parent(mdast.TypeTableRow, c.children(node)...))
	case *east.TableCell:
		return one(mdast.Parent(mdast.TypeTableCell, c.children(node)...))
	case *east.Strikethrough:
		return one(mdast.Parent(mdast.TypeDelete, c.children(node)...))
	default:
		return one(&mdast.Node{
			Type:     mdast.TypeUnknown,
			Raw:      n.Kind().String(),
			Children: c.children(n),
		})
	}
}

// text resolves escapes and entities like the goldmark HTML writer does.
// A soft break keeps its newline; a hard break becomes a break node.
func (c converter) text(node *ast.Text) []*mdast.Node {
	value := c.textValue(node)
	if node.SoftLineBreak() {
		value += "\n"
	}

	var out []*mdast.Node
	if value != "" {
		out = append(out, mdast.Text(value))
	}
	if node.HardLineBreak() {
		out = append(out, &mdast.Node{Type: mdast.TypeBreak})
	}
	return out
}

func (c converter) textValue(node *ast.Text) string {
	value := node.Segment.Value(c.source)
	if node.IsRaw() {
		return string(value)
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

// codeSpan joins the raw span text; line endings inside a span read as spaces.
func (c converter) codeSpan(node *ast.CodeSpan) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch segment := child.(type) {
		case *ast.Text:
			b.Write(segment.Segment.Value(c.source))
		case *ast.String:
			b.Write(segment.Value)
		}
	}
	return strings.ReplaceAll(b.String(), "\n", " ")
}

// plainText flattens the text below n, used for image alt text.
func (c converter) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			b.WriteString(c.textValue(node))
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeSpan:
			b.WriteString(c.codeSpan(node))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (c converter) segments(segments *text.Segments) string {
	if segments == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		b.Write(segment.Value(c.source))
	}
	return b.String()
}

// appendMerged appends nodes to out, folding adjacent text leaves into one.
func appendMerged(out []*mdast.Node, nodes ...*mdast.Node) []*mdast.Node {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if node.Type == mdast.TypeText && len(out) > 0 && out[len(out)-1].Type == mdast.TypeText {
			merged := *out[len(out)-1]
			merged.Value += node.Value
			out[len(out)-1] = &merged
			continue
		}
		out = append(out, node)
	}
	return out
}

func one(node *mdast.Node) []*mdast.Node {
	return []*mdast.Node{node}
}
