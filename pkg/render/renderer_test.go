package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/treebuilder/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if html != "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;" {
		t.Errorf("got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.Element("h1", "Title"),
		vdom.P("Content"),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Attr{Key: "title", Value: `a & "b" <c>`})
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div title="a &amp; &quot;b&quot; <c>"></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderVoidElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "br",
			node: vdom.Br(),
			want: `<br>`,
		},
		{
			name: "img with attributes",
			node: vdom.Img(vdom.Attr{Key: "src", Value: "a.png"}, vdom.Attr{Key: "alt", Value: "A"}),
			want: `<img src="a.png" alt="A">`,
		},
		{
			name: "void with appended text",
			node: vdom.Br("x"),
			want: `<br>x`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderComment(t *testing.T) {
	html, err := InnerHTML(vdom.Div(vdom.Comment("note")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<!--note-->" {
		t.Errorf("got %q", html)
	}
}

func TestRenderRawTextElement(t *testing.T) {
	node := vdom.Element("script", "if (a < b && c) {}")
	html, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<script>if (a < b && c) {}</script>" {
		t.Errorf("script text should not be escaped, got %q", html)
	}

	inner, _ := InnerHTML(node)
	if inner != "if (a < b && c) {}" {
		t.Errorf("InnerHTML of script = %q", inner)
	}
}

func TestRenderFragment(t *testing.T) {
	frag := vdom.Fragment(vdom.Span("a"), "b", vdom.Comment("c"))

	html, err := NewRenderer(RendererConfig{}).RenderToString(frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<span>a</span>b<!--c-->" {
		t.Errorf("got %q", html)
	}
}

func TestRenderNil(t *testing.T) {
	html, err := NewRenderer(RendererConfig{}).RenderToString(nil)
	if err != nil || html != "" {
		t.Errorf("got %q, %v", html, err)
	}
	inner, err := InnerHTML(nil)
	if err != nil || inner != "" {
		t.Errorf("got %q, %v", inner, err)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := NewRenderer(RendererConfig{}).RenderToString(&vdom.VNode{Kind: vdom.VKind(42)})
	if err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	node := vdom.Div(vdom.P("x"))
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<div>\n  <p>\nx  </p>\n</div>\n" {
		t.Errorf("got %q", html)
	}
}
