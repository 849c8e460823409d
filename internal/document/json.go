package document

import (
	"encoding/json"
	"fmt"
)

type wireNode struct {
	NodeType string          `json:"nodeType"`
	Value    *string         `json:"value,omitempty"`
	Marks    []wireMark      `json:"marks,omitempty"`
	Data     wireData        `json:"data"`
	Content  json.RawMessage `json:"content,omitempty"`
}

type wireMark struct {
	Type string `json:"type"`
}

type wireData struct {
	URI    string    `json:"uri,omitempty"`
	Target *wireLink `json:"target,omitempty"`
}

type wireLink struct {
	Sys wireSys `json:"sys"`
}

type wireSys struct {
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
	ID       string `json:"id"`
}

// MarshalJSON encodes the node using the CMS rich-text wire shape.
func (n Node) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"nodeType": n.KindName(),
		"data":     n.Data.wire(),
	}
	if n.Kind == KindText {
		out["value"] = n.Value
		marks := make([]wireMark, 0, len(n.Marks))
		for _, mark := range n.Marks {
			marks = append(marks, wireMark{Type: mark.String()})
		}
		out["marks"] = marks
		return json.Marshal(out)
	}
	content := n.Content
	if content == nil {
		content = []Node{}
	}
	out["content"] = content
	return json.Marshal(out)
}

// UnmarshalJSON decodes the CMS rich-text wire shape. Unknown node types are
// kept as KindUnknown so they survive a decode/encode cycle; unknown marks are
// dropped.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wire wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("document: decode node: %w", err)
	}

	kind, ok := ParseKind(wire.NodeType)
	node := Node{Kind: kind}
	if !ok {
		node.rawKind = wire.NodeType
	}

	node.Data = wire.Data.model()

	if kind == KindText {
		if wire.Value != nil {
			node.Value = *wire.Value
		}
		node.Marks = make([]Mark, 0, len(wire.Marks))
		for _, mark := range wire.Marks {
			if parsed, ok := ParseMark(mark.Type); ok {
				node.Marks = append(node.Marks, parsed)
			}
		}
		*n = node
		return nil
	}

	node.Content = []Node{}
	if len(wire.Content) > 0 && string(wire.Content) != "null" {
		if err := json.Unmarshal(wire.Content, &node.Content); err != nil {
			return err
		}
	}
	*n = node
	return nil
}

func (d Data) wire() wireData {
	out := wireData{URI: d.URI}
	if d.Target != nil {
		out.Target = &wireLink{Sys: wireSys{
			Type:     "Link",
			LinkType: string(d.Target.Kind),
			ID:       d.Target.ID,
		}}
	}
	return out
}

func (d wireData) model() Data {
	out := Data{URI: d.URI}
	if d.Target != nil {
		out.Target = &Link{
			Kind: LinkKind(d.Target.Sys.LinkType),
			ID:   d.Target.Sys.ID,
		}
	}
	return out
}

// Decode parses a JSON rich-text document.
func Decode(data []byte) (Node, error) {
	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return Node{}, err
	}
	return node, nil
}

// Encode renders the node as indented JSON.
func Encode(node Node) ([]byte, error) {
	return json.MarshalIndent(node, "", "  ")
}
