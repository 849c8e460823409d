package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
)

const markdownRule = "----------\n"

// markdownState is shared by every renderer of one ToMarkdown call. Lists do
// not stack: a nested ordered list resets the counter of its parent.
type markdownState struct {
	insideOrderedList bool
	orderedCounter    int
	insideTable       bool
	insideTableHeader bool
}

// ToMarkdown serializes doc as Markdown. The document root contributes a
// trailing newline.
func ToMarkdown(doc document.Node) string {
	return ToMarkdownWith(doc, Options{})
}

// ToMarkdownWith serializes doc with the Markdown configuration merged with
// overrides.
func ToMarkdownWith(doc document.Node, overrides Options) string {
	return RenderNode(doc, MarkdownOptions().Merge(overrides))
}

// MarkdownOptions returns a Markdown configuration bound to fresh render
// state. Each call returns an independent configuration.
func MarkdownOptions() Options {
	st := &markdownState{orderedCounter: 1}

	nodes := map[document.Kind]NodeRenderer{
		document.KindDocument: NodeRendererFunc(func(node document.Node, next Next) string {
			return next(node.Content) + "\n"
		}),
		document.KindParagraph: NodeRendererFunc(func(node document.Node, next Next) string {
			if st.insideTable {
				return next(node.Content) + "<br/>"
			}
			return next(node.Content) + "\n\n"
		}),
		document.KindOrderedList: NodeRendererFunc(func(node document.Node, next Next) string {
			st.insideOrderedList = true
			st.orderedCounter = 1
			out := next(node.Content) + "\n"
			st.insideOrderedList = false
			return out
		}),
		document.KindUnorderedList: NodeRendererFunc(func(node document.Node, next Next) string {
			return next(node.Content) + "\n"
		}),
		document.KindListItem: NodeRendererFunc(func(node document.Node, next Next) string {
			prefix := " *"
			if st.insideOrderedList {
				prefix = fmt.Sprintf("%d.", st.orderedCounter)
			}
			out := prefix + " " + next(node.Content)
			st.orderedCounter++
			return out
		}),
		document.KindHR: NodeRendererFunc(func(document.Node, Next) string {
			return markdownRule
		}),
		document.KindQuote: NodeRendererFunc(func(node document.Node, next Next) string {
			lines := strings.Split(next(node.Content), "\n")
			for i, line := range lines {
				lines[i] = "> " + line
			}
			return strings.Join(lines, "\n") + "\n"
		}),
		document.KindEmbeddedAsset: NodeRendererFunc(renderMarkdownEmbed),
		document.KindEmbeddedEntry: NodeRendererFunc(renderMarkdownEmbed),
		document.KindTable: NodeRendererFunc(func(node document.Node, next Next) string {
			return st.table(node, next)
		}),
		document.KindTableRow: NodeRendererFunc(func(node document.Node, next Next) string {
			return "| " + next(node.Content) + "\n"
		}),
		document.KindTableCell:       NodeRendererFunc(st.cell),
		document.KindTableHeaderCell: NodeRendererFunc(st.cell),
		document.KindHyperlink: NodeRendererFunc(func(node document.Node, next Next) string {
			return "[" + next(node.Content) + "](" + node.Data.URI + ")"
		}),
	}
	for level := 1; level <= 6; level++ {
		kind, _ := document.HeadingKind(level)
		hashes := strings.Repeat("#", level)
		nodes[kind] = NodeRendererFunc(func(node document.Node, next Next) string {
			return hashes + " " + next(node.Content) + "\n"
		})
	}

	return Options{
		Nodes: nodes,
		Marks: map[document.Mark]MarkRenderer{
			document.MarkBold:          trimmedWrap("**", "**"),
			document.MarkItalic:        trimmedWrap("_", "_"),
			document.MarkStrikethrough: trimmedWrap("~~", "~~"),
			document.MarkUnderline:     tagWrap("u"),
			document.MarkSuperscript:   tagWrap("sup"),
			document.MarkSubscript:     tagWrap("sub"),
			document.MarkCode: MarkRendererFunc(func(text string) string {
				return "`" + text + "`"
			}),
		},
	}
}

// table renders the first row as the header, then a separator sized by the
// header's cell count, then the remaining rows.
func (st *markdownState) table(node document.Node, next Next) string {
	if len(node.Content) == 0 {
		return ""
	}
	st.insideTable = true
	defer func() { st.insideTable = false }()

	header := node.Content[0]
	st.insideTableHeader = true
	headerLine := next([]document.Node{header})
	st.insideTableHeader = false

	var b strings.Builder
	b.WriteString(headerLine)
	b.WriteString("|")
	b.WriteString(strings.Repeat("--|", len(header.Content)))
	b.WriteString("\n")
	b.WriteString(next(node.Content[1:]))
	b.WriteString("\n")
	return b.String()
}

func (st *markdownState) cell(node document.Node, next Next) string {
	replacement := "<br/>"
	if st.insideTableHeader {
		replacement = ""
	}
	return " " + strings.ReplaceAll(next(node.Content), "\n", replacement) + " |"
}

func renderMarkdownEmbed(node document.Node, _ Next) string {
	id := ""
	if node.Data.Target != nil {
		id = node.Data.Target.ID
	}
	return "![" + node.Kind.String() + "](" + id + ")"
}

// trimmedWrap drops the mark when the text is blank so whitespace-only spans
// do not produce empty delimiter pairs.
func trimmedWrap(open, close string) MarkRenderer {
	return MarkRendererFunc(func(text string) string {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return ""
		}
		return open + trimmed + close
	})
}

func tagWrap(tag string) MarkRenderer {
	return MarkRendererFunc(func(text string) string {
		return "<" + tag + ">" + strings.TrimSpace(text) + "</" + tag + ">"
	})
}
