package mdast

// Normalize returns a copy of root in which no paragraph holds an image.
// Images nested in a paragraph are hoisted to siblings of that paragraph and
// the surrounding inline runs become paragraphs of their own; empty runs are
// dropped, so an image-only paragraph is replaced by the bare image. The input
// tree is left untouched.
func Normalize(root *Node) *Node {
	if root == nil {
		return nil
	}
	if len(root.Children) == 0 {
		return root.WithChildren(nil)
	}

	children := make([]*Node, 0, len(root.Children))
	for _, child := range root.Children {
		for _, expanded := range hoistImages(child) {
			if expanded == nil {
				continue
			}
			children = append(children, Normalize(expanded))
		}
	}
	return root.WithChildren(children)
}

func hoistImages(node *Node) []*Node {
	if node == nil || node.Type != TypeParagraph || !hasImage(node.Children) {
		return []*Node{node}
	}

	var (
		out []*Node
		run []*Node
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, node.WithChildren(run))
		run = nil
	}

	for _, child := range node.Children {
		if child.Type == TypeImage {
			flush()
			out = append(out, child)
			continue
		}
		run = append(run, child)
	}
	flush()
	return out
}

func hasImage(children []*Node) bool {
	for _, child := range children {
		if child != nil && child.Type == TypeImage {
			return true
		}
	}
	return false
}
