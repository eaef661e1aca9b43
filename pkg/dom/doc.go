// Package dom implements the node-materializing tree builder.
//
// A Tree builds a detached vdom fragment. Every node it creates is recorded
// in an append-only table, and the NodeToken returned for it is the node's
// index in that table:
//
//	t := dom.New()
//	tok, _ := t.OpenElement("span", "")
//	t.SetAttribute("class", "greeting")
//	t.AppendText("Hello")
//	t.CloseElement()
//
//	span, _ := t.Node(tok)
//	frag, err := t.Fragment()
//
// Fragment fails if any element is still open. InsertTreeBefore finalizes a
// tree and splices it into a live container.
package dom
