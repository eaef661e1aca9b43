package script

import (
	"fmt"
	"os"

	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/tree"
	"gopkg.in/yaml.v3"
)

// Kind names a builder operation.
type Kind string

// Supported operations.
const (
	KindOpen    Kind = "open"
	KindClose   Kind = "close"
	KindAttr    Kind = "attr"
	KindText    Kind = "text"
	KindComment Kind = "comment"
	KindHTML    Kind = "html"
)

func (k Kind) valid() bool {
	switch k {
	case KindOpen, KindClose, KindAttr, KindText, KindComment, KindHTML:
		return true
	}
	return false
}

// Op is one scripted builder call.
type Op struct {
	Kind Kind

	// Name is the tag name for open and the attribute name for attr.
	Name string

	// Namespace is the element namespace for open.
	Namespace string

	// Value is the attribute value for attr. It is tree.Undefined when the
	// script gives no value.
	Value any

	// Text is the payload of text, comment and html.
	Text string

	// Line and Column locate the entry in the source, 1-based.
	Line   int
	Column int
}

// Script is a parsed call script.
type Script struct {
	// Name is the file the script was read from, or a label like "<stdin>".
	Name string

	// Ops are the operations in source order.
	Ops []Op

	source []byte
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("T020").
			WithDetail("Cannot read script " + path).
			Wrap(err)
	}
	return Parse(path, data)
}

// Parse parses a script. name is used in error locations.
func Parse(name string, data []byte) (*Script, error) {
	s := &Script{Name: name, source: data}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("T020").
			WithDetail(err.Error()).
			WithSuggestion("Check the YAML/JSON syntax of " + displayName(name))
	}

	// Empty input decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return s, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, s.errorAt(errors.New("T020"), root).
			WithDetail("The top level of a script must be a list of operations.")
	}

	s.Ops = make([]Op, 0, len(root.Content))
	for _, item := range root.Content {
		op, err := s.parseOp(item)
		if err != nil {
			return nil, err
		}
		s.Ops = append(s.Ops, op)
	}
	return s, nil
}

func (s *Script) parseOp(n *yaml.Node) (Op, error) {
	op := Op{Line: n.Line, Column: n.Column}

	switch n.Kind {
	case yaml.ScalarNode:
		kind := Kind(n.Value)
		if !kind.valid() {
			return op, s.unknownOp(n, n.Value)
		}
		if kind != KindClose {
			return op, s.errorAt(errors.New("T020"), n).
				WithDetail(fmt.Sprintf("Operation %q needs an argument.", n.Value)).
				WithSuggestion(fmt.Sprintf("Write it as `%s: <value>`", n.Value))
		}
		op.Kind = KindClose
		return op, nil

	case yaml.MappingNode:
		return s.parseMapping(n, op)

	default:
		return op, s.errorAt(errors.New("T020"), n).
			WithDetail("Each operation must be a mapping or the word close.")
	}
}

func (s *Script) parseMapping(n *yaml.Node, op Op) (Op, error) {
	var (
		kindNode  *yaml.Node
		argNode   *yaml.Node
		nsNode    *yaml.Node
		valueNode *yaml.Node
	)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "ns":
			nsNode = val
		case "value":
			valueNode = val
		default:
			if !Kind(key.Value).valid() {
				return op, s.unknownOp(key, key.Value)
			}
			if kindNode != nil {
				return op, s.errorAt(errors.New("T020"), key).
					WithDetail(fmt.Sprintf("Entry names both %q and %q.", kindNode.Value, key.Value)).
					WithSuggestion("Put each operation in its own list item")
			}
			kindNode, argNode = key, val
		}
	}

	if kindNode == nil {
		return op, s.errorAt(errors.New("T020"), n).
			WithDetail("Entry has no operation key.")
	}
	op.Kind = Kind(kindNode.Value)

	if nsNode != nil && op.Kind != KindOpen {
		return op, s.errorAt(errors.New("T020"), nsNode).
			WithDetail("ns is only valid on open.")
	}
	if valueNode != nil && op.Kind != KindAttr {
		return op, s.errorAt(errors.New("T020"), valueNode).
			WithDetail("value is only valid on attr.")
	}

	if op.Kind == KindClose {
		return op, nil
	}

	arg, err := s.scalar(argNode, string(op.Kind))
	if err != nil {
		return op, err
	}

	switch op.Kind {
	case KindOpen:
		op.Name = arg
		if nsNode != nil {
			ns, err := s.scalar(nsNode, "ns")
			if err != nil {
				return op, err
			}
			op.Namespace = ns
		}
	case KindAttr:
		op.Name = arg
		op.Value = tree.Undefined
		if valueNode != nil {
			var v any
			if err := valueNode.Decode(&v); err != nil {
				return op, s.errorAt(errors.New("T020"), valueNode).Wrap(err)
			}
			op.Value = v
		}
	default:
		op.Text = arg
	}
	return op, nil
}

// scalar returns the string form of a non-null scalar node.
func (s *Script) scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", s.errorAt(errors.New("T020"), n).
			WithDetail(fmt.Sprintf("%s expects a string.", what))
	}
	return n.Value, nil
}

func (s *Script) unknownOp(n *yaml.Node, name string) *errors.TreeError {
	return s.errorAt(errors.New("T021"), n).
		WithDetail(fmt.Sprintf("Unknown operation %q.", name)).
		WithSuggestion("Use one of open, close, attr, text, comment, html")
}

// errorAt attaches the node's position and the surrounding source lines.
func (s *Script) errorAt(e *errors.TreeError, n *yaml.Node) *errors.TreeError {
	return s.locate(e, n.Line, n.Column)
}

func (s *Script) locate(e *errors.TreeError, line, column int) *errors.TreeError {
	return e.WithSource(displayName(s.Name), s.source, line, column)
}

func displayName(name string) string {
	if name == "" {
		return "<input>"
	}
	return name
}
