// Package mdast holds the generic Markdown syntax tree handed to the rich-text
// transformer. Grammar adapters translate their own trees into these nodes;
// node types the transformer has no native rule for are still represented
// (html, code, break, unknown) so the fallback hook can see them.
package mdast

// Type is the closed set of generic node types.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeRoot
	TypeParagraph
	TypeHeading
	TypeText
	TypeEmphasis
	TypeStrong
	TypeDelete
	TypeInlineCode
	TypeLink
	TypeImage
	TypeThematicBreak
	TypeBlockquote
	TypeList
	TypeListItem
	TypeTable
	TypeTableRow
	TypeTableCell
	TypeHTML
	TypeCode
	TypeBreak
)

var typeNames = [...]string{
	TypeUnknown:       "unknown",
	TypeRoot:          "root",
	TypeParagraph:     "paragraph",
	TypeHeading:       "heading",
	TypeText:          "text",
	TypeEmphasis:      "emphasis",
	TypeStrong:        "strong",
	TypeDelete:        "delete",
	TypeInlineCode:    "inlineCode",
	TypeLink:          "link",
	TypeImage:         "image",
	TypeThematicBreak: "thematicBreak",
	TypeBlockquote:    "blockquote",
	TypeList:          "list",
	TypeListItem:      "listItem",
	TypeTable:         "table",
	TypeTableRow:      "tableRow",
	TypeTableCell:     "tableCell",
	TypeHTML:          "html",
	TypeCode:          "code",
	TypeBreak:         "break",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeUnknown]
}

// ParseType maps a grammar type name onto a Type; unmapped names yield TypeUnknown.
func ParseType(name string) Type {
	for idx, candidate := range typeNames {
		if candidate == name {
			return Type(idx)
		}
	}
	return TypeUnknown
}

// Node is one generic syntax node. Attributes are only set for the types that
// use them: Depth for headings, Ordered/Start for lists, Value for leaves
// (text, inlineCode, html, code), URL/Alt/Title for links and images.
type Node struct {
	Type     Type
	Children []*Node

	Depth   int
	Ordered bool
	Start   int
	Value   string
	URL     string
	Alt     string
	Title   string

	// Raw is the grammar's own name for TypeUnknown nodes.
	Raw string
}

// Name returns the type name, preferring Raw for unknown nodes.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	if n.Type == TypeUnknown && n.Raw != "" {
		return n.Raw
	}
	return n.Type.String()
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n == nil || len(n.Children) == 0
}

// WithChildren returns a shallow copy of n holding children.
func (n *Node) WithChildren(children []*Node) *Node {
	copied := *n
	copied.Children = children
	return &copied
}

// Walk visits n and its descendants depth-first, stopping when fn returns false
// for a node's subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Root builds a root node.
func Root(children ...*Node) *Node {
	return &Node{Type: TypeRoot, Children: children}
}

// Parent builds a container node of type t.
func Parent(t Type, children ...*Node) *Node {
	return &Node{Type: t, Children: children}
}

// Literal builds a leaf node of type t carrying value.
func Literal(t Type, value string) *Node {
	return &Node{Type: t, Value: value}
}

// Text builds a text leaf.
func Text(value string) *Node {
	return Literal(TypeText, value)
}
