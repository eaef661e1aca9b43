package stream

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vango-dev/treebuilder/pkg/escape"
	"github.com/vango-dev/treebuilder/pkg/tree"
	"github.com/vango-dev/treebuilder/pkg/vdom"
)

// frameState tracks whether an open element's start tag is complete.
type frameState uint8

const (
	// pending: "<name" and attributes written, '>' not yet.
	pending frameState = iota
	// flushed: '>' written; attributes are final.
	flushed
)

type frame struct {
	name  string
	state frameState
}

// Tree is a tree.Builder that writes HTML to an io.Writer.
type Tree struct {
	w      io.Writer
	stack  []frame
	err    error
	logger *slog.Logger
}

var _ tree.Builder = (*Tree)(nil)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used to report contract violations at debug
// level. The default discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// New creates a session writing to w.
func New(w io.Writer, opts ...Option) *Tree {
	t := &Tree{w: w}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OpenElement implements tree.Builder.
func (t *Tree) OpenElement(name, _ string) (tree.NodeToken, error) {
	if name == "" {
		return tree.Unaddressable, t.violation(tree.ErrInvalidName)
	}
	if err := t.flush(); err != nil {
		return tree.Unaddressable, err
	}
	t.stack = append(t.stack, frame{name: name, state: pending})
	return tree.Unaddressable, t.write("<" + name)
}

// CloseElement implements tree.Builder.
func (t *Tree) CloseElement() error {
	if len(t.stack) == 0 {
		return t.violation(&tree.MismatchError{})
	}
	if err := t.flush(); err != nil {
		return err
	}

	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if vdom.IsVoidElement(top.name) {
		return nil
	}
	return t.write("</" + top.name + ">")
}

// SetAttribute implements tree.Builder.
func (t *Tree) SetAttribute(name string, value any) error {
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].state == flushed {
		return t.violation(&tree.FlushError{Attr: name})
	}
	return t.write(" " + name + `="` + escape.Attr(tree.AttrString(value)) + `"`)
}

// AppendText implements tree.Builder.
func (t *Tree) AppendText(text string) (tree.NodeToken, error) {
	if err := t.flush(); err != nil {
		return tree.Unaddressable, err
	}
	return tree.Unaddressable, t.write(escape.HTML(text))
}

// AppendComment implements tree.Builder.
func (t *Tree) AppendComment(text string) (tree.NodeToken, error) {
	if err := t.flush(); err != nil {
		return tree.Unaddressable, err
	}
	return tree.Unaddressable, t.write("<!--" + escape.Comment(text) + "-->")
}

// AppendHTML implements tree.Builder. The markup is written verbatim.
func (t *Tree) AppendHTML(markup string) (tree.Bounds, error) {
	if err := t.flush(); err != nil {
		return tree.EmptyBounds, err
	}
	return tree.EmptyBounds, t.write(markup)
}

// Finish implements tree.Builder. It reports elements left open; nothing
// is written.
func (t *Tree) Finish() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) > 0 {
		return t.violation(&tree.MismatchError{Recent: t.stack[len(t.stack)-1].name})
	}
	return nil
}

// Depth returns the number of open elements.
func (t *Tree) Depth() int {
	return len(t.stack)
}

// flush completes a pending start tag.
func (t *Tree) flush() error {
	if t.err != nil {
		return t.err
	}
	if len(t.stack) == 0 {
		return nil
	}
	top := &t.stack[len(t.stack)-1]
	if top.state == flushed {
		return nil
	}
	top.state = flushed
	return t.write(">")
}

// write sends s to the sink. The first failure is kept and returned by
// every later call.
func (t *Tree) write(s string) error {
	if t.err != nil {
		return t.err
	}
	if _, err := io.WriteString(t.w, s); err != nil {
		t.err = fmt.Errorf("stream: write: %w", err)
		return t.err
	}
	return nil
}

func (t *Tree) violation(err error) error {
	if t.logger != nil {
		depth := len(t.stack)
		t.logger.Debug("tree builder contract violation", "error", err, "depth", depth)
	}
	return err
}
