package vdom

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Comment creates a comment node. The content is stored as given; callers
// are responsible for sanitizing it.
func Comment(content string) *VNode {
	return &VNode{
		Kind: KindComment,
		Text: content,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	appendArgs(node, children)
	return node
}

func attr(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Class creates a class attribute.
func Class(class string) Attr { return attr("class", class) }

// ID creates an id attribute.
func ID(id string) Attr { return attr("id", id) }
