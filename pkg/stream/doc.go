// Package stream implements the stream-serializing tree builder.
//
// A Tree writes HTML to an io.Writer as calls arrive. The name of an
// opening tag is written immediately but its closing '>' is held back until
// the next event that cannot be undone (child content, a new element, or
// the end tag), so attributes can still be added in between:
//
//	t := stream.New(w)
//	t.OpenElement("span", "")      // "<span"
//	t.SetAttribute("class", "x")   // ` class="x"`
//	t.AppendText("hi")             // ">hi"
//	t.CloseElement()               // "</span>"
//	err := t.Finish()
//
// No nodes are materialized; every operation returns tree.Unaddressable and
// AppendHTML returns empty bounds.
package stream
