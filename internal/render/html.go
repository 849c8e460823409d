package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
)

// HTMLOptions returns the HTML configuration. Text values are emitted as-is;
// only the hyperlink href attribute is quoted.
func HTMLOptions() Options {
	nodes := map[document.Kind]NodeRenderer{
		document.KindParagraph:       wrapTag("p"),
		document.KindUnorderedList:   wrapTag("ul"),
		document.KindOrderedList:     wrapTag("ol"),
		document.KindListItem:        wrapTag("li"),
		document.KindQuote:           wrapTag("blockquote"),
		document.KindTable:           wrapTag("table"),
		document.KindTableRow:        wrapTag("tr"),
		document.KindTableHeaderCell: wrapTag("th"),
		document.KindTableCell:       wrapTag("td"),
		document.KindEmbeddedEntry:   wrapTag("div"),
		document.KindHR: NodeRendererFunc(func(document.Node, Next) string {
			return "<hr/>"
		}),
		document.KindHyperlink: NodeRendererFunc(func(node document.Node, next Next) string {
			return "<a href=" + attributeValue(node.Data.URI) + ">" + next(node.Content) + "</a>"
		}),
		document.KindEmbeddedEntryInline: NodeRendererFunc(func(node document.Node, _ Next) string {
			id := ""
			if node.Data.Target != nil {
				id = node.Data.Target.ID
			}
			return fmt.Sprintf("<span>type: %s id: %s</span>",
				encodeURIComponent(node.Kind.String()), encodeURIComponent(id))
		}),
	}
	for level := 1; level <= 6; level++ {
		kind, _ := document.HeadingKind(level)
		nodes[kind] = wrapTag(fmt.Sprintf("h%d", level))
	}

	return Options{
		Nodes: nodes,
		Marks: map[document.Mark]MarkRenderer{
			document.MarkBold:          markTag("b"),
			document.MarkItalic:        markTag("i"),
			document.MarkUnderline:     markTag("u"),
			document.MarkCode:          markTag("code"),
			document.MarkStrikethrough: markTag("s"),
			document.MarkSuperscript:   markTag("sup"),
			document.MarkSubscript:     markTag("sub"),
		},
	}
}

// ToHTML renders the content of doc with the HTML configuration merged with
// overrides. The document root itself contributes no markup.
func ToHTML(doc document.Node, overrides Options) string {
	if len(doc.Content) == 0 {
		return ""
	}
	return Render(doc.Content, HTMLOptions().Merge(overrides))
}

func wrapTag(tag string) NodeRenderer {
	return NodeRendererFunc(func(node document.Node, next Next) string {
		return "<" + tag + ">" + next(node.Content) + "</" + tag + ">"
	})
}

func markTag(tag string) MarkRenderer {
	return MarkRendererFunc(func(text string) string {
		return "<" + tag + ">" + text + "</" + tag + ">"
	})
}

func attributeValue(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, "&quot;") + `"`
}

// encodeURIComponent escapes everything outside the unreserved URI set.
func encodeURIComponent(value string) string {
	escaped := url.QueryEscape(value)
	return strings.ReplaceAll(escaped, "+", "%20")
}
