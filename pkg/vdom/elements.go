package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Element creates an element node.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string (text).
func Element(tag string, args ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	appendArgs(node, args)
	return node
}

func appendArgs(node *VNode, args []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional children)
			continue
		case Attr:
			if v.Key != "" {
				node.SetAttr(v.Key, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.SetAttr(a.Key, a.Value)
				}
			}
		case *VNode:
			if v != nil {
				node.AppendChild(v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.AppendChild(c)
				}
			}
		case string:
			node.AppendChild(Text(v))
		}
	}
}

func Div(args ...any) *VNode  { return Element("div", args...) }
func Span(args ...any) *VNode { return Element("span", args...) }
func P(args ...any) *VNode    { return Element("p", args...) }
func Ul(args ...any) *VNode   { return Element("ul", args...) }
func Li(args ...any) *VNode   { return Element("li", args...) }
func B(args ...any) *VNode    { return Element("b", args...) }
func Br(args ...any) *VNode   { return Element("br", args...) }
func Img(args ...any) *VNode  { return Element("img", args...) }
