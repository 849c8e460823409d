package document

import "strings"

// Kind identifies the structural role of a rich-text node. The set is closed;
// wire names that do not map onto a known kind decode to KindUnknown.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDocument
	KindParagraph
	KindHeading1
	KindHeading2
	KindHeading3
	KindHeading4
	KindHeading5
	KindHeading6
	KindQuote
	KindHR
	KindUnorderedList
	KindOrderedList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindTableHeaderCell
	KindEmbeddedAsset
	KindEmbeddedEntry
	KindHyperlink
	KindEmbeddedEntryInline
	KindText
)

var kindNames = [...]string{
	KindUnknown:             "",
	KindDocument:            "document",
	KindParagraph:           "paragraph",
	KindHeading1:            "heading-1",
	KindHeading2:            "heading-2",
	KindHeading3:            "heading-3",
	KindHeading4:            "heading-4",
	KindHeading5:            "heading-5",
	KindHeading6:            "heading-6",
	KindQuote:               "blockquote",
	KindHR:                  "hr",
	KindUnorderedList:       "unordered-list",
	KindOrderedList:         "ordered-list",
	KindListItem:            "list-item",
	KindTable:               "table",
	KindTableRow:            "table-row",
	KindTableCell:           "table-cell",
	KindTableHeaderCell:     "table-header-cell",
	KindEmbeddedAsset:       "embedded-asset-block",
	KindEmbeddedEntry:       "embedded-entry-block",
	KindHyperlink:           "hyperlink",
	KindEmbeddedEntryInline: "embedded-entry-inline",
	KindText:                "text",
}

var kindsByName = func() map[string]Kind {
	out := make(map[string]Kind, len(kindNames))
	for kind, name := range kindNames {
		if name == "" {
			continue
		}
		out[name] = Kind(kind)
	}
	return out
}()

// String returns the wire name used by the CMS rich-text format.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return ""
}

// ParseKind resolves a wire name. Unknown names report false.
func ParseKind(name string) (Kind, bool) {
	kind, ok := kindsByName[strings.TrimSpace(name)]
	return kind, ok
}

// HeadingKind returns the heading kind for level 1..6.
func HeadingKind(level int) (Kind, bool) {
	if level < 1 || level > 6 {
		return KindUnknown, false
	}
	return KindHeading1 + Kind(level-1), true
}

// HeadingLevel reports the heading level, or 0 when k is not a heading.
func (k Kind) HeadingLevel() int {
	if k < KindHeading1 || k > KindHeading6 {
		return 0
	}
	return int(k-KindHeading1) + 1
}

// IsInline reports whether the kind belongs to the inline category.
func (k Kind) IsInline() bool {
	switch k {
	case KindHyperlink, KindEmbeddedEntryInline, KindText:
		return true
	default:
		return false
	}
}

// IsBlock reports whether the kind belongs to the block category.
func (k Kind) IsBlock() bool {
	return k != KindUnknown && k != KindDocument && !k.IsInline()
}

// Mark is a character-level formatting attribute carried by text nodes.
type Mark uint8

const (
	MarkBold Mark = iota + 1
	MarkItalic
	MarkUnderline
	MarkCode
	MarkStrikethrough
	MarkSuperscript
	MarkSubscript
)

var markNames = map[Mark]string{
	MarkBold:          "bold",
	MarkItalic:        "italic",
	MarkUnderline:     "underline",
	MarkCode:          "code",
	MarkStrikethrough: "strikethrough",
	MarkSuperscript:   "superscript",
	MarkSubscript:     "subscript",
}

func (m Mark) String() string {
	return markNames[m]
}

// ParseMark resolves a mark wire name.
func ParseMark(name string) (Mark, bool) {
	name = strings.TrimSpace(name)
	for mark, candidate := range markNames {
		if candidate == name {
			return mark, true
		}
	}
	return 0, false
}

// LinkKind distinguishes the CMS object a Link points at.
type LinkKind string

const (
	LinkEntry LinkKind = "Entry"
	LinkAsset LinkKind = "Asset"
)

// Link is an opaque reference to an external CMS object. The id is never
// resolved here; callers supply ids that already exist (or will exist).
type Link struct {
	Kind LinkKind
	ID   string
}

// NewLink builds a Link of the supplied kind.
func NewLink(id string, kind LinkKind) Link {
	return Link{Kind: kind, ID: id}
}
