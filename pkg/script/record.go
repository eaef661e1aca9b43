package script

import (
	"github.com/vango-dev/treebuilder/pkg/tree"
	"gopkg.in/yaml.v3"
)

// Recorder is a tree.Builder that records calls as script operations.
// It performs no validation; replaying the recording through a real
// backend reports the same contract errors the original calls would.
type Recorder struct {
	Ops []Op
}

var _ tree.Builder = (*Recorder)(nil)

func (r *Recorder) OpenElement(name, namespace string) (tree.NodeToken, error) {
	r.Ops = append(r.Ops, Op{Kind: KindOpen, Name: name, Namespace: namespace})
	return tree.Unaddressable, nil
}

func (r *Recorder) CloseElement() error {
	r.Ops = append(r.Ops, Op{Kind: KindClose})
	return nil
}

func (r *Recorder) SetAttribute(name string, value any) error {
	r.Ops = append(r.Ops, Op{Kind: KindAttr, Name: name, Value: value})
	return nil
}

func (r *Recorder) AppendText(text string) (tree.NodeToken, error) {
	r.Ops = append(r.Ops, Op{Kind: KindText, Text: text})
	return tree.Unaddressable, nil
}

func (r *Recorder) AppendComment(text string) (tree.NodeToken, error) {
	r.Ops = append(r.Ops, Op{Kind: KindComment, Text: text})
	return tree.Unaddressable, nil
}

func (r *Recorder) AppendHTML(markup string) (tree.Bounds, error) {
	r.Ops = append(r.Ops, Op{Kind: KindHTML, Text: markup})
	return tree.Bounds{}, nil
}

func (r *Recorder) Finish() error { return nil }

// Script returns the recorded operations as a script.
func (r *Recorder) Script(name string) *Script {
	return &Script{Name: name, Ops: r.Ops}
}

// Encode writes ops as a YAML script that Parse reads back to the same
// operations. Attribute values are stringified with tree.AttrString except
// nil and tree.Undefined, which keep their distinct spellings.
func Encode(ops []Op) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, op := range ops {
		if op.Kind == KindClose {
			root.Content = append(root.Content, str(string(KindClose)))
			continue
		}

		m := &yaml.Node{Kind: yaml.MappingNode}
		switch op.Kind {
		case KindOpen, KindAttr:
			m.Content = append(m.Content, str(string(op.Kind)), str(op.Name))
		default:
			m.Content = append(m.Content, str(string(op.Kind)), str(op.Text))
		}

		if op.Kind == KindOpen && op.Namespace != "" {
			m.Content = append(m.Content, str("ns"), str(op.Namespace))
		}
		if op.Kind == KindAttr && op.Value != tree.Undefined {
			v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			if op.Value != nil {
				v = str(tree.AttrString(op.Value))
			}
			m.Content = append(m.Content, str("value"), v)
		}
		root.Content = append(root.Content, m)
	}
	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
