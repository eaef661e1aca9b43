package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/treebuilder/pkg/escape"
	"github.com/vango-dev/treebuilder/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output is not byte-comparable with the stream builder.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer serializes vdom trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// InnerHTML serializes the children of node with a default renderer.
func InnerHTML(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderChildren(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToString renders a node, including its own tags, to a string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node, including its own tags, to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, false, 0)
}

// RenderChildren streams the children of node to w.
func (r *Renderer) RenderChildren(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	raw := node.Kind == vdom.KindElement && isRawTextElement(node.Tag)
	for _, child := range node.Children {
		if err := r.renderNode(w, child, raw, 0); err != nil {
			return err
		}
	}
	return nil
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, rawText bool, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		text := node.Text
		if !rawText {
			text = escape.HTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case vdom.KindComment:
		_, err := io.WriteString(w, "<!--"+node.Text+"-->")
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, rawText, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	// Indentation (if pretty printing)
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	var open strings.Builder
	open.WriteByte('<')
	open.WriteString(tag)
	for _, a := range node.Attrs {
		open.WriteByte(' ')
		open.WriteString(a.Key)
		open.WriteString(`="`)
		open.WriteString(escape.Attr(a.Value))
		open.WriteByte('"')
	}
	open.WriteByte('>')
	if _, err := io.WriteString(w, open.String()); err != nil {
		return err
	}

	// Newline after opening tag if has children and pretty printing
	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}

	raw := isRawTextElement(tag)
	for _, child := range node.Children {
		if err := r.renderNode(w, child, raw, depth+1); err != nil {
			return err
		}
	}

	// Void elements never get an end tag, even when content was appended
	// to them through a builder.
	if isVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	// Closing tag indentation
	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "</"+tag+">"); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}

	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
