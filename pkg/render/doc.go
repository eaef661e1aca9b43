// Package render serializes vdom trees to HTML and replays them through
// tree builders.
//
// The serializer produces the same bytes the stream builder would have
// written for the same sequence of builder calls, which makes the output of
// the dom builder directly comparable with the stream builder's:
//
//	frag, _ := domTree.Fragment()
//	html, err := render.InnerHTML(frag)
//
// # Replay
//
// Replay drives any tree.Builder from an existing vdom tree:
//
//	err := render.Replay(stream.New(w), node)
//
// # Pages
//
// Page emits a complete html/head/body shell through a builder, calling
// back for the body content. Streaming callers write Doctype first.
//
// # Security
//
// Text and attribute values are escaped with the escape package. Markup
// inserted with AppendHTML is parsed by the dom builder and serialized back
// from nodes, so only well-formed content survives.
package render
