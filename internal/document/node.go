// Package document models the typed rich-text tree used by CMS formatted
// fields: a single document root holding blocks, which hold blocks or inline
// nodes, down to marked text leaves.
//
// Nodes are values. Constructors copy the slices they receive so a node never
// shares backing storage with the caller, and nothing in this module edits a
// node after it has been appended to a parent.
package document

// Data carries the kind-specific payload of a node. Hyperlinks use URI,
// embedded blocks and inlines use Target; every other kind leaves it empty.
type Data struct {
	URI    string
	Target *Link
}

// IsZero reports whether the payload is empty.
func (d Data) IsZero() bool {
	return d.URI == "" && d.Target == nil
}

// Node is a single rich-text node. Value and Marks are only meaningful for
// KindText; Content is empty for text leaves.
type Node struct {
	Kind    Kind
	Content []Node
	Data    Data
	Value   string
	Marks   []Mark

	// rawKind keeps the wire name of nodes decoded with KindUnknown.
	rawKind string
}

// KindName returns the wire name, including the original name of unknown kinds.
func (n Node) KindName() string {
	if n.Kind == KindUnknown {
		return n.rawKind
	}
	return n.Kind.String()
}

// IsText reports whether the node is a text leaf.
func (n Node) IsText() bool {
	return n.Kind == KindText
}

// HasMark reports whether the text node carries mark m.
func (n Node) HasMark(m Mark) bool {
	for _, mark := range n.Marks {
		if mark == m {
			return true
		}
	}
	return false
}

// NewDocument wraps content in the document root.
func NewDocument(content ...Node) Node {
	return Node{Kind: KindDocument, Content: cloneNodes(content)}
}

// NewBlock builds a block or inline container of the given kind.
func NewBlock(kind Kind, content ...Node) Node {
	return Node{Kind: kind, Content: cloneNodes(content)}
}

// Paragraph builds a paragraph block.
func Paragraph(content ...Node) Node {
	return NewBlock(KindParagraph, content...)
}

// Heading builds a heading block; levels outside 1..6 are clamped.
func Heading(level int, content ...Node) Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	kind, _ := HeadingKind(level)
	return NewBlock(kind, content...)
}

// Text builds a text leaf carrying marks in the order supplied.
func Text(value string, marks ...Mark) Node {
	node := Node{Kind: KindText, Value: value, Marks: []Mark{}}
	if len(marks) > 0 {
		node.Marks = append(node.Marks, marks...)
	}
	return node
}

// Hyperlink builds an inline hyperlink pointing at uri.
func Hyperlink(uri string, content ...Node) Node {
	return Node{Kind: KindHyperlink, Content: cloneNodes(content), Data: Data{URI: uri}}
}

// Embedded builds an embedded block or inline targeting link.
func Embedded(kind Kind, link Link) Node {
	target := link
	return Node{Kind: kind, Content: []Node{}, Data: Data{Target: &target}}
}

// EmbeddedAsset builds an embedded-asset-block for the asset id.
func EmbeddedAsset(id string) Node {
	return Embedded(KindEmbeddedAsset, NewLink(id, LinkAsset))
}

// EmbeddedEntry builds an embedded-entry-block for the entry id.
func EmbeddedEntry(id string) Node {
	return Embedded(KindEmbeddedEntry, NewLink(id, LinkEntry))
}

// WithValue returns a copy of the text node with a new value.
func (n Node) WithValue(value string) Node {
	out := n.Clone()
	out.Value = value
	return out
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Content != nil {
		out.Content = cloneNodes(n.Content)
	}
	if n.Marks != nil {
		out.Marks = append([]Mark{}, n.Marks...)
	}
	if n.Data.Target != nil {
		target := *n.Data.Target
		out.Data.Target = &target
	}
	return out
}

// PlainText concatenates the values of every text leaf below n.
func (n Node) PlainText() string {
	if n.Kind == KindText {
		return n.Value
	}
	var out []byte
	for _, child := range n.Content {
		out = append(out, child.PlainText()...)
	}
	return string(out)
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return []Node{}
	}
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		out[i] = node.Clone()
	}
	return out
}
