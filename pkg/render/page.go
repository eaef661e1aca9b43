package render

import "github.com/vango-dev/treebuilder/pkg/tree"

// Doctype is written ahead of a streamed page. Fragments cannot carry a
// doctype, so Page leaves it to the caller.
const Doctype = "<!DOCTYPE html>\n"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title
	Title string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// Scripts contains script tags appended to the end of the body
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
	Charset  string // charset attribute
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Defer  bool   // defer attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// BodyFunc emits the page content into the open <body> element.
type BodyFunc func(b tree.Builder) error

// Page emits <html>, <head> and <body> through b and calls body for the
// content. The builder is left balanced; Finish is not called.
func Page(b tree.Builder, page PageData, body BodyFunc) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := b.OpenElement("html", ""); err != nil {
		return err
	}
	if err := b.SetAttribute("lang", lang); err != nil {
		return err
	}

	if err := renderHead(b, page); err != nil {
		return err
	}

	if _, err := b.OpenElement("body", ""); err != nil {
		return err
	}
	if body != nil {
		if err := body(b); err != nil {
			return err
		}
	}
	for _, script := range page.Scripts {
		if err := renderScriptTag(b, script); err != nil {
			return err
		}
	}
	if err := b.CloseElement(); err != nil {
		return err
	}

	return b.CloseElement()
}

func renderHead(b tree.Builder, page PageData) error {
	if _, err := b.OpenElement("head", ""); err != nil {
		return err
	}

	if err := emptyElement(b, "meta", "charset", "utf-8"); err != nil {
		return err
	}
	if err := emptyElement(b, "meta",
		"name", "viewport",
		"content", "width=device-width, initial-scale=1",
	); err != nil {
		return err
	}

	for _, meta := range page.Meta {
		if err := renderMetaTag(b, meta); err != nil {
			return err
		}
	}

	if page.Title != "" {
		if _, err := b.OpenElement("title", ""); err != nil {
			return err
		}
		if _, err := b.AppendText(page.Title); err != nil {
			return err
		}
		if err := b.CloseElement(); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if err := emptyElement(b, "link", "rel", "stylesheet", "href", href); err != nil {
			return err
		}
	}

	for _, css := range page.Styles {
		if _, err := b.OpenElement("style", ""); err != nil {
			return err
		}
		if _, err := b.AppendHTML(css); err != nil {
			return err
		}
		if err := b.CloseElement(); err != nil {
			return err
		}
	}

	return b.CloseElement()
}

func renderMetaTag(b tree.Builder, meta MetaTag) error {
	var attrs []string
	if meta.Charset != "" {
		attrs = append(attrs, "charset", meta.Charset)
	}
	if meta.Name != "" {
		attrs = append(attrs, "name", meta.Name)
	}
	if meta.Property != "" {
		attrs = append(attrs, "property", meta.Property)
	}
	if meta.Content != "" {
		attrs = append(attrs, "content", meta.Content)
	}
	return emptyElement(b, "meta", attrs...)
}

func renderScriptTag(b tree.Builder, script ScriptTag) error {
	if _, err := b.OpenElement("script", ""); err != nil {
		return err
	}
	if script.Module {
		if err := b.SetAttribute("type", "module"); err != nil {
			return err
		}
	}
	if script.Src != "" {
		if err := b.SetAttribute("src", script.Src); err != nil {
			return err
		}
	}
	if script.Defer {
		if err := b.SetAttribute("defer", ""); err != nil {
			return err
		}
	}
	if script.Inline != "" {
		if _, err := b.AppendHTML(script.Inline); err != nil {
			return err
		}
	}
	return b.CloseElement()
}

// emptyElement opens tag, sets the name/value pairs and closes it.
func emptyElement(b tree.Builder, tag string, attrs ...string) error {
	if _, err := b.OpenElement(tag, ""); err != nil {
		return err
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		if err := b.SetAttribute(attrs[i], attrs[i+1]); err != nil {
			return err
		}
	}
	return b.CloseElement()
}
