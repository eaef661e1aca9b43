// Package vdom provides the in-memory HTML node model used by the dom
// builder backend.
//
// # Core Types
//
// VNode represents elements, text, comments and detached fragments. Nodes
// keep a Parent pointer so a builder can walk back up the tree when an
// element is closed. Attributes are an ordered slice; SetAttr replaces an
// existing value in place like the DOM's setAttribute.
//
// # Element API
//
// Trees can be written literally for tests and fixtures:
//
//	Div(Class("card"), ID("main"),
//	    P("Content"),
//	    Comment("note"),
//	)
//
// # Parsing
//
// ParseFragment turns trusted markup into nodes using golang.org/x/net/html,
// with the parent element as the parsing context.
//
// # Mounting
//
// InsertBefore splices a finished fragment into a live container before a
// reference node.
package vdom
