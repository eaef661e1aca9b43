// Package markdown renders Markdown documents through a tree.Builder.
//
// Documents are parsed with goldmark and the resulting AST is replayed as
// builder calls, so the same document can be streamed to a sink or
// materialized as nodes:
//
//	r := markdown.New(markdown.WithFlavor(markdown.FlavorGFM))
//	b := stream.New(w)
//	if err := r.Render(ctx, b, source); err != nil {
//	    return err
//	}
//	return b.Finish()
//
// Raw HTML in the source is replaced by a comment unless WithUnsafe is
// set. Unsafe inline HTML is appended with AppendHTML one tag at a time,
// so the node-materializing backend may nest it differently than a
// browser would.
package markdown
