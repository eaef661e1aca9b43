package stream

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/treebuilder/pkg/tree"
)

func TestCreateElement(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.OpenElement("span", "")
	tr.CloseElement()

	if got := buf.String(); got != "<span></span>" {
		t.Errorf("got %q", got)
	}
}

func TestAttributes(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.OpenElement("span", "")
	tr.SetAttribute("disabled", "")
	tr.SetAttribute("data-foo", "yes")
	tr.SetAttribute("null-attr", nil)
	tr.SetAttribute("undefined-attr", tree.Undefined)
	tr.CloseElement()

	want := `<span disabled="" data-foo="yes" null-attr="null" undefined-attr="undefined"></span>`
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOpeningTagIsDeferred(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.OpenElement("div", "")
	if got := buf.String(); got != "<div" {
		t.Fatalf("after open got %q, want %q", got, "<div")
	}

	tr.SetAttribute("id", "x")
	if got := buf.String(); got != `<div id="x"` {
		t.Fatalf("after attribute got %q", got)
	}

	tr.AppendText("hi")
	if got := buf.String(); got != `<div id="x">hi` {
		t.Fatalf("after text got %q", got)
	}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		run  func(tr *Tree)
		want string
	}{
		{
			name: "escaped text",
			run: func(tr *Tree) {
				tr.OpenElement("span", "")
				tr.SetAttribute("disabled", "")
				tr.AppendText("Hello ")
				tr.AppendText("</World>")
				tr.CloseElement()
			},
			want: `<span disabled="">Hello &lt;/World&gt;</span>`,
		},
		{
			name: "comment",
			run: func(tr *Tree) {
				tr.OpenElement("span", "")
				tr.SetAttribute("disabled", "")
				tr.AppendComment("FIXME")
				tr.CloseElement()
			},
			want: `<span disabled=""><!--FIXME--></span>`,
		},
		{
			name: "comment sanitized",
			run: func(tr *Tree) {
				tr.AppendComment("a-->b")
			},
			want: `<!--ab-->`,
		},
		{
			name: "raw html",
			run: func(tr *Tree) {
				tr.OpenElement("span", "")
				tr.SetAttribute("disabled", "")
				tr.AppendHTML(`<div><div class="hello"></div></div>text node!`)
				tr.CloseElement()
			},
			want: `<span disabled=""><div><div class="hello"></div></div>text node!</span>`,
		},
		{
			name: "nested elements flush parent",
			run: func(tr *Tree) {
				tr.OpenElement("ul", "")
				tr.OpenElement("li", "")
				tr.CloseElement()
				tr.OpenElement("li", "")
				tr.SetAttribute("class", "last")
				tr.CloseElement()
				tr.CloseElement()
			},
			want: `<ul><li></li><li class="last"></li></ul>`,
		},
		{
			name: "void element has no end tag",
			run: func(tr *Tree) {
				tr.OpenElement("p", "")
				tr.AppendText("a")
				tr.OpenElement("br", "")
				tr.CloseElement()
				tr.AppendText("b")
				tr.CloseElement()
			},
			want: `<p>a<br>b</p>`,
		},
		{
			name: "root level content",
			run: func(tr *Tree) {
				tr.AppendText("x & y")
				tr.AppendHTML("<hr>")
			},
			want: `x &amp; y<hr>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := New(&buf)
			tt.run(tr)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStressScenario(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.OpenElement("span", "")
	tr.SetAttribute("data-wat", "bram")
	tr.OpenElement("aside", "")
	tr.SetAttribute("data-bar", "foo")
	tr.SetAttribute("bâz", `<"hacked`)
	tr.AppendText("hello ")
	tr.AppendHTML("here is <b>some</b> <ul><li>html</li></ul> for you")
	tr.AppendText(" good")
	tr.AppendHTML(" <bye></bye>")
	tr.CloseElement()
	tr.OpenElement("my-custom-element", "")
	tr.OpenElement("i", "")
	tr.AppendText("<hello world>")
	tr.CloseElement()
	tr.CloseElement()
	tr.CloseElement()

	if err := tr.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<span data-wat="bram"><aside data-bar="foo" bâz="<&quot;hacked">hello here is <b>some</b> <ul><li>html</li></ul> for you good <bye></bye></aside><my-custom-element><i>&lt;hello world&gt;</i></my-custom-element></span>`
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestReturnsUnaddressable(t *testing.T) {
	tr := New(&bytes.Buffer{})

	tok, _ := tr.OpenElement("div", "")
	if tok != tree.Unaddressable {
		t.Errorf("OpenElement token = %d", tok)
	}
	tok, _ = tr.AppendText("x")
	if tok != tree.Unaddressable {
		t.Errorf("AppendText token = %d", tok)
	}
	tok, _ = tr.AppendComment("x")
	if tok != tree.Unaddressable {
		t.Errorf("AppendComment token = %d", tok)
	}
	bounds, _ := tr.AppendHTML("<b>x</b>")
	if !bounds.IsEmpty() {
		t.Errorf("AppendHTML bounds = %+v, want empty", bounds)
	}
}

func TestCloseWithoutOpen(t *testing.T) {
	tr := New(&bytes.Buffer{})

	err := tr.CloseElement()
	if !errors.Is(err, tree.ErrMismatchedElement) {
		t.Fatalf("got %v, want mismatch error", err)
	}
}

func TestLateAttribute(t *testing.T) {
	tests := []struct {
		name string
		run  func(tr *Tree)
	}{
		{"after text", func(tr *Tree) { tr.AppendText("x") }},
		{"after comment", func(tr *Tree) { tr.AppendComment("x") }},
		{"after html", func(tr *Tree) { tr.AppendHTML("<b></b>") }},
		{"after child element", func(tr *Tree) {
			tr.OpenElement("b", "")
			tr.CloseElement()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := New(&buf)
			tr.OpenElement("div", "")
			tt.run(tr)
			before := buf.String()

			err := tr.SetAttribute("data-late", "1")

			var fe *tree.FlushError
			if !errors.As(err, &fe) {
				t.Fatalf("got %v, want *tree.FlushError", err)
			}
			if fe.Attr != "data-late" {
				t.Errorf("Attr = %q", fe.Attr)
			}
			if buf.String() != before {
				t.Errorf("nothing should be written on failure, got %q", buf.String())
			}
		})
	}
}

func TestAttributeWithoutElement(t *testing.T) {
	tr := New(&bytes.Buffer{})
	if err := tr.SetAttribute("x", "y"); !errors.Is(err, tree.ErrFlush) {
		t.Errorf("got %v, want flush error", err)
	}
}

func TestEmptyName(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)
	if _, err := tr.OpenElement("", ""); !errors.Is(err, tree.ErrInvalidName) {
		t.Errorf("got %v, want ErrInvalidName", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestFinishReportsOpenElements(t *testing.T) {
	tr := New(&bytes.Buffer{})
	tr.OpenElement("section", "")
	tr.OpenElement("p", "")
	tr.CloseElement()

	err := tr.Finish()
	var me *tree.MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want *tree.MismatchError", err)
	}
	if me.Recent != "section" {
		t.Errorf("Recent = %q, want section", me.Recent)
	}
	if tr.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", tr.Depth())
	}
}

type failingWriter struct {
	after int
	n     int
}

var errSink = errors.New("sink closed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errSink
	}
	w.n++
	return len(p), nil
}

func TestSinkErrorIsSticky(t *testing.T) {
	tr := New(&failingWriter{after: 1})

	if _, err := tr.OpenElement("div", ""); err != nil {
		t.Fatalf("first write should succeed: %v", err)
	}
	_, err := tr.AppendText("x")
	if !errors.Is(err, errSink) {
		t.Fatalf("got %v, want sink error", err)
	}
	if tree.IsContractError(err) {
		t.Error("sink error must not be reported as a contract error")
	}

	if err := tr.CloseElement(); !errors.Is(err, errSink) {
		t.Errorf("CloseElement got %v, want sticky sink error", err)
	}
	if err := tr.Finish(); !errors.Is(err, errSink) {
		t.Errorf("Finish got %v, want sticky sink error", err)
	}
}

func TestLoggerReceivesViolations(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tr := New(&bytes.Buffer{}, WithLogger(logger))
	tr.CloseElement()

	if !strings.Contains(logs.String(), "contract violation") {
		t.Errorf("expected violation to be logged, got %q", logs.String())
	}
}
