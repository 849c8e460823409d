package transform

import (
	"regexp"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/mdast"
)

var blockKinds = map[mdast.Type]document.Kind{
	mdast.TypeParagraph:     document.KindParagraph,
	mdast.TypeThematicBreak: document.KindHR,
	mdast.TypeListItem:      document.KindListItem,
	mdast.TypeTable:         document.KindTable,
	mdast.TypeTableRow:      document.KindTableRow,
}

// blockKind resolves the document kind for block syntax nodes. Headings take
// their level from Depth and lists their flavour from Ordered.
func blockKind(node *mdast.Node) (document.Kind, bool) {
	switch node.Type {
	case mdast.TypeHeading:
		depth := node.Depth
		if depth < 1 {
			depth = 1
		}
		if depth > 6 {
			depth = 6
		}
		return document.HeadingKind(depth)
	case mdast.TypeList:
		if node.Ordered {
			return document.KindOrderedList, true
		}
		return document.KindUnorderedList, true
	}
	kind, ok := blockKinds[node.Type]
	return kind, ok
}

// markTypes lists the wrappers that contribute a mark instead of a node.
// Blockquotes are flattened into code-marked text.
var markTypes = map[mdast.Type]document.Mark{
	mdast.TypeEmphasis:   document.MarkItalic,
	mdast.TypeStrong:     document.MarkBold,
	mdast.TypeInlineCode: document.MarkCode,
	mdast.TypeDelete:     document.MarkStrikethrough,
	mdast.TypeBlockquote: document.MarkCode,
}

type embedKind struct {
	kind document.Kind
	link document.LinkKind
}

var embedKinds = map[string]embedKind{
	document.KindEmbeddedAsset.String(): {kind: document.KindEmbeddedAsset, link: document.LinkAsset},
	document.KindEmbeddedEntry.String(): {kind: document.KindEmbeddedEntry, link: document.LinkEntry},
}

var (
	anchorOpen = regexp.MustCompile(`(?i)^<a[\s>]`)
	anchorHref = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)
)

// hrefOf extracts the href attribute of an opening anchor tag. A missing
// attribute yields an empty URI.
func hrefOf(tag string) string {
	match := anchorHref.FindStringSubmatch(tag)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
