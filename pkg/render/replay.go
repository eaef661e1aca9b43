package render

import (
	"fmt"

	"github.com/vango-dev/treebuilder/pkg/tree"
	"github.com/vango-dev/treebuilder/pkg/vdom"
)

// Replay issues the builder calls that reproduce node. Fragments replay
// their children. Replay does not call Finish.
func Replay(b tree.Builder, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		if _, err := b.OpenElement(node.Tag, node.Namespace); err != nil {
			return err
		}
		for _, a := range node.Attrs {
			if err := b.SetAttribute(a.Key, a.Value); err != nil {
				return err
			}
		}
		for _, child := range node.Children {
			if err := Replay(b, child); err != nil {
				return err
			}
		}
		return b.CloseElement()
	case vdom.KindText:
		_, err := b.AppendText(node.Text)
		return err
	case vdom.KindComment:
		_, err := b.AppendComment(node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := Replay(b, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}
