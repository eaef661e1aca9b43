package vdom

import "errors"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <span>, etc.
	KindText                  // Text node, stored unescaped
	KindComment               // Comment node, stored sanitized
	KindFragment              // Detached container without a tag
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// ErrNotChild is returned when a reference node is not a child of the
// node being modified.
var ErrNotChild = errors.New("vdom: reference node is not a child of parent")

// ErrHierarchy is returned when an insertion would make a node its own
// ancestor.
var ErrHierarchy = errors.New("vdom: node would contain itself")

// Attr is a single attribute. Attribute order is preserved.
type Attr struct {
	Key   string
	Value string
}

// VNode is an in-memory HTML node.
type VNode struct {
	Kind      VKind    // Node type
	Tag       string   // Element tag name (e.g., "div")
	Namespace string   // Empty for HTML, "svg" or "math" for foreign content
	Attrs     []Attr   // Attributes in insertion order
	Text      string   // For KindText and KindComment
	Parent    *VNode   // nil for detached roots
	Children  []*VNode // Child nodes
}

// GetAttr returns the value of the named attribute.
func (v *VNode) GetAttr(key string) (string, bool) {
	for _, a := range v.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value in place.
func (v *VNode) SetAttr(key, value string) {
	for i := range v.Attrs {
		if v.Attrs[i].Key == key {
			v.Attrs[i].Value = value
			return
		}
	}
	v.Attrs = append(v.Attrs, Attr{Key: key, Value: value})
}

// AppendChild adds child as the last child of v, detaching it from any
// previous parent.
func (v *VNode) AppendChild(child *VNode) {
	child.detach()
	child.Parent = v
	v.Children = append(v.Children, child)
}

// FirstChild returns the first child, or nil.
func (v *VNode) FirstChild() *VNode {
	if len(v.Children) == 0 {
		return nil
	}
	return v.Children[0]
}

// LastChild returns the last child, or nil.
func (v *VNode) LastChild() *VNode {
	if len(v.Children) == 0 {
		return nil
	}
	return v.Children[len(v.Children)-1]
}

// NextSibling returns the node following v under the same parent, or nil.
func (v *VNode) NextSibling() *VNode {
	if v.Parent == nil {
		return nil
	}
	i := v.Parent.indexOf(v)
	if i < 0 || i+1 >= len(v.Parent.Children) {
		return nil
	}
	return v.Parent.Children[i+1]
}

// InsertBefore inserts child into v before ref, or at the end when ref is
// nil. A fragment child is spliced: its children move into v and the
// fragment is left empty. Inserting a node before itself leaves the tree
// unchanged.
func (v *VNode) InsertBefore(child, ref *VNode) error {
	at := len(v.Children)
	if ref != nil {
		at = v.indexOf(ref)
		if at < 0 {
			return ErrNotChild
		}
	}
	if child.contains(v) {
		return ErrHierarchy
	}
	if child == ref {
		return nil
	}

	var moved []*VNode
	if child.Kind == KindFragment {
		moved = child.Children
		child.Children = nil
	} else {
		child.detach()
		// detach may have shifted ref when child was an earlier sibling.
		if ref != nil {
			at = v.indexOf(ref)
		}
		moved = []*VNode{child}
	}

	for _, m := range moved {
		m.Parent = v
	}

	children := make([]*VNode, 0, len(v.Children)+len(moved))
	children = append(children, v.Children[:at]...)
	children = append(children, moved...)
	children = append(children, v.Children[at:]...)
	v.Children = children
	return nil
}

// detach removes v from its parent's children.
func (v *VNode) detach() {
	if v.Parent == nil {
		return
	}
	p := v.Parent
	if i := p.indexOf(v); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	v.Parent = nil
}

// contains reports whether n is v or a descendant of v.
func (v *VNode) contains(n *VNode) bool {
	for ; n != nil; n = n.Parent {
		if n == v {
			return true
		}
	}
	return false
}

func (v *VNode) indexOf(child *VNode) int {
	for i, c := range v.Children {
		if c == child {
			return i
		}
	}
	return -1
}
