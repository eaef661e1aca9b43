package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/vango-dev/treebuilder/pkg/tree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Flavor identifies the Markdown flavor supported by the renderer.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

const omittedHTML = " raw HTML omitted "

// Renderer converts Markdown into builder calls. A Renderer may be used
// from several goroutines; each Render call needs its own builder.
type Renderer struct {
	flavor string
	unsafe bool
	md     goldmark.Markdown
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFlavor selects "commonmark" or "gfm". Unknown flavors fall back to
// CommonMark.
func WithFlavor(flavor string) Option {
	return func(r *Renderer) {
		r.flavor = flavorOrDefault(flavor)
	}
}

// WithUnsafe passes raw HTML from the source through AppendHTML.
func WithUnsafe(unsafe bool) Option {
	return func(r *Renderer) {
		r.unsafe = unsafe
	}
}

// New creates a Renderer. The default flavor is CommonMark.
func New(opts ...Option) *Renderer {
	r := &Renderer{flavor: FlavorCommonMark}
	for _, opt := range opts {
		opt(r)
	}
	r.md = newGoldmarkInstance(r.flavor)
	return r
}

// Flavor returns the configured Markdown flavor.
func (r *Renderer) Flavor() string {
	return r.flavor
}

// Parse parses source into a goldmark AST.
//
//nolint:ireturn // ast.Node is goldmark's node interface
func (r *Renderer) Parse(source []byte) ast.Node {
	return r.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))
}

// Render parses source and drives b with the document's content at the
// current insertion point. It does not call b.Finish.
func (r *Renderer) Render(ctx context.Context, b tree.Builder, source []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("markdown: render cancelled: %w", err)
	}
	doc := r.Parse(source)

	w := &walker{ctx: ctx, b: b, source: source, unsafe: r.unsafe}
	if err := w.children(doc); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	return nil
}

// Title returns the text of the first level-one heading, or "".
func (r *Renderer) Title(source []byte) string {
	doc := r.Parse(source)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return string(plainText(h, source))
		}
	}
	return ""
}

type walker struct {
	ctx    context.Context
	b      tree.Builder
	source []byte
	unsafe bool
}

func (w *walker) children(n ast.Node) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := w.node(child); err != nil {
			return err
		}
	}
	return nil
}

// element wraps n's children in a tag.
func (w *walker) element(tag string, n ast.Node, attrs ...string) error {
	if _, err := w.b.OpenElement(tag, ""); err != nil {
		return err
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		if err := w.b.SetAttribute(attrs[i], attrs[i+1]); err != nil {
			return err
		}
	}
	if n != nil {
		if err := w.children(n); err != nil {
			return err
		}
	}
	return w.b.CloseElement()
}

func (w *walker) text(s []byte) error {
	if len(s) == 0 {
		return nil
	}
	_, err := w.b.AppendText(string(s))
	return err
}

func (w *walker) node(n ast.Node) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	switch gmn := n.(type) {
	// Block-level nodes.
	case *ast.Heading:
		return w.element("h"+strconv.Itoa(gmn.Level), n)

	case *ast.Paragraph:
		return w.element("p", n)

	case *ast.TextBlock:
		return w.children(n)

	case *ast.List:
		if gmn.IsOrdered() {
			if gmn.Start != 1 {
				return w.element("ol", n, "start", strconv.Itoa(gmn.Start))
			}
			return w.element("ol", n)
		}
		return w.element("ul", n)

	case *ast.ListItem:
		return w.element("li", n)

	case *ast.Blockquote:
		return w.element("blockquote", n)

	case *ast.ThematicBreak:
		return w.element("hr", nil)

	case *ast.FencedCodeBlock:
		var attrs []string
		if lang := gmn.Language(w.source); len(lang) > 0 {
			attrs = []string{"class", "language-" + string(lang)}
		}
		return w.codeBlock(n, attrs)

	case *ast.CodeBlock:
		return w.codeBlock(n, nil)

	case *ast.HTMLBlock:
		if !w.unsafe {
			_, err := w.b.AppendComment(omittedHTML)
			return err
		}
		var buf bytes.Buffer
		writeLines(&buf, n, w.source)
		if gmn.HasClosure() {
			buf.Write(gmn.ClosureLine.Value(w.source))
		}
		_, err := w.b.AppendHTML(buf.String())
		return err

	// Inline-level nodes.
	case *ast.Text:
		if err := w.text(inlineText(gmn, w.source)); err != nil {
			return err
		}
		if gmn.HardLineBreak() {
			if err := w.element("br", nil); err != nil {
				return err
			}
			return w.text([]byte{'\n'})
		}
		if gmn.SoftLineBreak() {
			return w.text([]byte{'\n'})
		}
		return nil

	case *ast.String:
		if gmn.IsCode() || gmn.IsRaw() {
			return w.text(gmn.Value)
		}
		return w.text(unescape(gmn.Value))

	case *ast.CodeSpan:
		if _, err := w.b.OpenElement("code", ""); err != nil {
			return err
		}
		if err := w.text(rawText(n, w.source)); err != nil {
			return err
		}
		return w.b.CloseElement()

	case *ast.Emphasis:
		if gmn.Level == 2 {
			return w.element("strong", n)
		}
		return w.element("em", n)

	case *ast.Link:
		attrs := []string{"href", string(util.URLEscape(gmn.Destination, true))}
		if len(gmn.Title) > 0 {
			attrs = append(attrs, "title", string(unescape(gmn.Title)))
		}
		return w.element("a", n, attrs...)

	case *ast.Image:
		attrs := []string{
			"src", string(util.URLEscape(gmn.Destination, true)),
			"alt", string(plainText(n, w.source)),
		}
		if len(gmn.Title) > 0 {
			attrs = append(attrs, "title", string(unescape(gmn.Title)))
		}
		return w.element("img", nil, attrs...)

	case *ast.AutoLink:
		url := gmn.URL(w.source)
		label := gmn.Label(w.source)
		if gmn.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
			url = append([]byte("mailto:"), url...)
		}
		if _, err := w.b.OpenElement("a", ""); err != nil {
			return err
		}
		if err := w.b.SetAttribute("href", string(util.URLEscape(url, false))); err != nil {
			return err
		}
		if err := w.text(label); err != nil {
			return err
		}
		return w.b.CloseElement()

	case *ast.RawHTML:
		if !w.unsafe {
			_, err := w.b.AppendComment(omittedHTML)
			return err
		}
		var buf bytes.Buffer
		for i := 0; i < gmn.Segments.Len(); i++ {
			seg := gmn.Segments.At(i)
			buf.Write(seg.Value(w.source))
		}
		_, err := w.b.AppendHTML(buf.String())
		return err

	// GFM extension nodes.
	case *east.Strikethrough:
		return w.element("del", n)

	case *east.TaskCheckBox:
		attrs := []string{"disabled", "", "type", "checkbox"}
		if gmn.IsChecked {
			attrs = append([]string{"checked", ""}, attrs...)
		}
		return w.element("input", nil, attrs...)

	case *east.Table:
		return w.element("table", n)

	case *east.TableHeader:
		if _, err := w.b.OpenElement("thead", ""); err != nil {
			return err
		}
		if err := w.element("tr", n); err != nil {
			return err
		}
		return w.b.CloseElement()

	case *east.TableRow:
		return w.tableRow(gmn)

	case *east.TableCell:
		tag := "td"
		if _, ok := n.Parent().(*east.TableHeader); ok {
			tag = "th"
		}
		if gmn.Alignment != east.AlignNone {
			return w.element(tag, n, "align", gmn.Alignment.String())
		}
		return w.element(tag, n)

	default:
		// Unknown nodes contribute their children only.
		return w.children(n)
	}
}

// tableRow wraps body rows in a single tbody.
func (w *walker) tableRow(row *east.TableRow) error {
	if _, ok := row.PreviousSibling().(*east.TableHeader); ok {
		if _, err := w.b.OpenElement("tbody", ""); err != nil {
			return err
		}
	}
	if err := w.element("tr", row); err != nil {
		return err
	}
	if row.NextSibling() == nil {
		return w.b.CloseElement()
	}
	return nil
}

func (w *walker) codeBlock(n ast.Node, attrs []string) error {
	if _, err := w.b.OpenElement("pre", ""); err != nil {
		return err
	}
	if _, err := w.b.OpenElement("code", ""); err != nil {
		return err
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		if err := w.b.SetAttribute(attrs[i], attrs[i+1]); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	writeLines(&buf, n, w.source)
	if err := w.text(buf.Bytes()); err != nil {
		return err
	}
	if err := w.b.CloseElement(); err != nil {
		return err
	}
	return w.b.CloseElement()
}

func writeLines(buf *bytes.Buffer, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}

func inlineText(t *ast.Text, source []byte) []byte {
	value := t.Segment.Value(source)
	if t.IsRaw() {
		return value
	}
	return unescape(value)
}

// unescape resolves backslash escapes and character references, which the
// builder escapes again on output.
func unescape(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// rawText concatenates the source of n's text children without unescaping.
func rawText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.Bytes()
}

// plainText returns the unescaped text content of n's descendants.
func plainText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(inlineText(t, source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.Write(plainText(c, source))
		}
	}
	return buf.Bytes()
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
