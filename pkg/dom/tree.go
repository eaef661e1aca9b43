package dom

import (
	"context"

	"github.com/vango-dev/treebuilder/pkg/escape"
	"github.com/vango-dev/treebuilder/pkg/tree"
	"github.com/vango-dev/treebuilder/pkg/vdom"
)

// Tree is a tree.Builder that materializes nodes in memory.
type Tree struct {
	nodes    []*vdom.VNode
	fragment *vdom.VNode
	current  *vdom.VNode
}

var _ tree.Builder = (*Tree)(nil)

// New creates an empty session.
func New() *Tree {
	return &Tree{
		fragment: vdom.Fragment(),
	}
}

// OpenElement implements tree.Builder.
func (t *Tree) OpenElement(name, namespace string) (tree.NodeToken, error) {
	if name == "" {
		return tree.Unaddressable, tree.ErrInvalidName
	}

	element := &vdom.VNode{
		Kind:      vdom.KindElement,
		Tag:       name,
		Namespace: normalizeNamespace(namespace),
	}
	t.parent().AppendChild(element)
	t.current = element

	return t.pushNode(element), nil
}

// CloseElement implements tree.Builder.
func (t *Tree) CloseElement() error {
	if t.current == nil {
		return t.mismatch()
	}

	parent := t.current.Parent
	if parent == t.fragment {
		parent = nil
	}
	t.current = parent
	return nil
}

// SetAttribute implements tree.Builder.
func (t *Tree) SetAttribute(name string, value any) error {
	if t.current == nil {
		return t.mismatch()
	}
	t.current.SetAttr(name, tree.AttrString(value))
	return nil
}

// AppendText implements tree.Builder.
func (t *Tree) AppendText(text string) (tree.NodeToken, error) {
	return t.appendNode(vdom.Text(text)), nil
}

// AppendComment implements tree.Builder.
func (t *Tree) AppendComment(text string) (tree.NodeToken, error) {
	return t.appendNode(vdom.Comment(escape.Comment(text))), nil
}

// AppendHTML implements tree.Builder. The markup is parsed with the
// insertion point as context and the resulting nodes are appended after
// its existing children.
func (t *Tree) AppendHTML(markup string) (tree.Bounds, error) {
	parent := t.parent()
	lastChild := parent.LastChild()

	nodes, err := vdom.ParseFragment(t.current, markup)
	if err != nil {
		return tree.EmptyBounds, err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}

	var first *vdom.VNode
	if lastChild != nil {
		first = lastChild.NextSibling()
	} else {
		first = parent.FirstChild()
	}
	last := parent.LastChild()

	if first == nil || last == nil {
		return tree.EmptyBounds, nil
	}
	return tree.NewBounds(t.pushNode(first), t.pushNode(last)), nil
}

// Finish implements tree.Builder.
func (t *Tree) Finish() error {
	if t.current != nil {
		return t.mismatch()
	}
	return nil
}

// Fragment finalizes the session and returns the detached fragment.
func (t *Tree) Fragment() (*vdom.VNode, error) {
	if err := t.Finish(); err != nil {
		return nil, err
	}
	return t.fragment, nil
}

// Node resolves a token issued by this session.
func (t *Tree) Node(tok tree.NodeToken) (*vdom.VNode, bool) {
	if !tok.Valid() || int(tok) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[tok], true
}

// Len returns the number of tokens issued so far.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// InsertTreeBefore finalizes t and inserts its fragment into parent before
// ref, or at the end when ref is nil.
func InsertTreeBefore(ctx context.Context, parent *vdom.VNode, t *Tree, ref *vdom.VNode) error {
	frag, err := t.Fragment()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return parent.InsertBefore(frag, ref)
}

func (t *Tree) parent() *vdom.VNode {
	if t.current != nil {
		return t.current
	}
	return t.fragment
}

func (t *Tree) appendNode(node *vdom.VNode) tree.NodeToken {
	t.parent().AppendChild(node)
	return t.pushNode(node)
}

func (t *Tree) pushNode(node *vdom.VNode) tree.NodeToken {
	t.nodes = append(t.nodes, node)
	return tree.NodeToken(len(t.nodes) - 1)
}

func (t *Tree) mismatch() error {
	err := &tree.MismatchError{}
	if t.current != nil {
		err.Recent = t.current.Tag
	}
	return err
}

func normalizeNamespace(ns string) string {
	switch ns {
	case "", "html", "http://www.w3.org/1999/xhtml":
		return ""
	case "http://www.w3.org/2000/svg":
		return "svg"
	case "http://www.w3.org/1998/Math/MathML":
		return "math"
	default:
		return ns
	}
}
