package tree

// NodeToken is an opaque per-session handle to a node produced by a Builder.
type NodeToken int32

// Unaddressable is returned by backends that never materialize nodes.
// It identifies nothing and never resolves to a node.
const Unaddressable NodeToken = -1

// Valid reports whether the token may refer to a node.
func (t NodeToken) Valid() bool {
	return t >= 0
}

// Bounds delimits the contiguous run of sibling nodes produced by a single
// AppendHTML call. The zero value is the empty bounds.
type Bounds struct {
	First NodeToken
	Last  NodeToken

	present bool
}

// NewBounds returns bounds covering first through last, inclusive.
func NewBounds(first, last NodeToken) Bounds {
	return Bounds{First: first, Last: last, present: true}
}

// EmptyBounds is returned when an insertion produced no addressable nodes.
var EmptyBounds = Bounds{First: Unaddressable, Last: Unaddressable}

// IsEmpty reports whether the bounds refer to no nodes.
func (b Bounds) IsEmpty() bool {
	return !b.present
}

// Builder incrementally constructs one HTML tree.
//
// Calls run to completion in order; a Builder is not safe for concurrent
// use. After a contract error the session should be abandoned.
type Builder interface {
	// OpenElement starts an element as the last child of the current
	// insertion point and makes it the new insertion point. An empty
	// namespace means HTML.
	OpenElement(name, namespace string) (NodeToken, error)

	// CloseElement ends the current element and restores its parent as the
	// insertion point.
	CloseElement() error

	// SetAttribute attaches an attribute to the element that was most
	// recently opened. The value is converted with AttrString.
	SetAttribute(name string, value any) error

	// AppendText appends an escaped text node.
	AppendText(text string) (NodeToken, error)

	// AppendComment appends a sanitized comment node.
	AppendComment(text string) (NodeToken, error)

	// AppendHTML appends caller-trusted markup verbatim and returns the
	// bounds of the nodes it produced.
	AppendHTML(markup string) (Bounds, error)

	// Finish validates that every opened element was closed.
	Finish() error
}
