// Package render walks rich-text documents and turns them into strings. The
// engine is a kind-keyed dispatch table; the Markdown and HTML outputs are
// two configurations of it.
package render

import (
	"maps"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
)

// Next renders a list of child nodes with the configuration of the current
// render call.
type Next func(nodes []document.Node) string

// NodeRenderer renders one non-text node. Implementations call next to render
// the node's content.
type NodeRenderer interface {
	RenderNode(node document.Node, next Next) string
}

// NodeRendererFunc adapts a function to NodeRenderer.
type NodeRendererFunc func(node document.Node, next Next) string

// RenderNode implements NodeRenderer.
func (f NodeRendererFunc) RenderNode(node document.Node, next Next) string {
	return f(node, next)
}

// MarkRenderer wraps the text produced so far for one mark.
type MarkRenderer interface {
	RenderMark(text string) string
}

// MarkRendererFunc adapts a function to MarkRenderer.
type MarkRendererFunc func(text string) string

// RenderMark implements MarkRenderer.
func (f MarkRendererFunc) RenderMark(text string) string {
	return f(text)
}

// Options is a render configuration. Kinds and marks without an entry render
// as empty output and unwrapped text respectively.
type Options struct {
	Nodes map[document.Kind]NodeRenderer
	Marks map[document.Mark]MarkRenderer
}

// Merge returns a new configuration holding o's renderers replaced by the
// non-nil entries of overrides. Neither input is modified.
func (o Options) Merge(overrides Options) Options {
	out := Options{
		Nodes: make(map[document.Kind]NodeRenderer, len(o.Nodes)+len(overrides.Nodes)),
		Marks: make(map[document.Mark]MarkRenderer, len(o.Marks)+len(overrides.Marks)),
	}
	maps.Copy(out.Nodes, o.Nodes)
	maps.Copy(out.Marks, o.Marks)
	for kind, renderer := range overrides.Nodes {
		if renderer != nil {
			out.Nodes[kind] = renderer
		}
	}
	for mark, renderer := range overrides.Marks {
		if renderer != nil {
			out.Marks[mark] = renderer
		}
	}
	return out
}

// Render renders nodes in order and concatenates the output.
func Render(nodes []document.Node, opts Options) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(RenderNode(node, opts))
	}
	return b.String()
}

// RenderNode renders a single node. Text leaves apply their marks in the order
// they were attached, each wrapping the previous output; other nodes go to
// the renderer registered for their kind.
func RenderNode(node document.Node, opts Options) string {
	if node.IsText() {
		out := node.Value
		for _, mark := range node.Marks {
			if renderer, ok := opts.Marks[mark]; ok && renderer != nil {
				out = renderer.RenderMark(out)
			}
		}
		return out
	}

	renderer, ok := opts.Nodes[node.Kind]
	if !ok || renderer == nil || node.Kind == document.KindUnknown {
		return ""
	}
	return renderer.RenderNode(node, func(nodes []document.Node) string {
		return Render(nodes, opts)
	})
}
