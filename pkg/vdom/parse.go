package vdom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup as the content of parent, the way a browser's
// insertAdjacentHTML would, and returns the resulting top-level nodes. The
// nodes are detached; the caller appends them. A nil or non-element parent
// parses in a <body> context.
func ParseFragment(parent *VNode, markup string) ([]*VNode, error) {
	if markup == "" {
		return nil, nil
	}

	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	if parent != nil && parent.Kind == KindElement {
		ctx.Data = parent.Tag
		ctx.DataAtom = atom.Lookup([]byte(parent.Tag))
		ctx.Namespace = parent.Namespace
	}

	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]*VNode, 0, len(parsed))
	for _, n := range parsed {
		if v := fromHTML(n); v != nil {
			nodes = append(nodes, v)
		}
	}
	return nodes, nil
}

// fromHTML converts an x/net/html node and its subtree.
func fromHTML(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.CommentNode:
		return Comment(n.Data)
	case html.ElementNode:
		node := &VNode{
			Kind:      KindElement,
			Tag:       n.Data,
			Namespace: n.Namespace,
		}
		if len(n.Attr) > 0 {
			node.Attrs = make([]Attr, 0, len(n.Attr))
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			node.Attrs = append(node.Attrs, Attr{Key: key, Value: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				node.AppendChild(child)
			}
		}
		return node
	default:
		// Doctype and error nodes have no place inside a fragment.
		return nil
	}
}
