// Package tree defines the builder contract shared by every HTML tree
// backend.
//
// A Builder receives a well-formed sequence of open, attribute, content and
// close calls and turns it into some output. The dom package materializes a
// detached node tree; the stream package writes HTML text to an io.Writer.
// Rendering code written against Builder works unchanged with either.
//
// # Node Tokens
//
// Operations that create nodes return a NodeToken. Backends that keep nodes
// in memory issue dense per-session indexes that can be resolved back to the
// node. Backends that never materialize nodes return Unaddressable.
//
// # Errors
//
// Contract misuse is reported through typed errors:
//
//	if _, err := b.OpenElement("div", ""); err != nil { ... }
//	if err := b.CloseElement(); errors.Is(err, tree.ErrMismatchedElement) { ... }
//
// IsContractError separates these caller bugs from sink I/O failures.
package tree
