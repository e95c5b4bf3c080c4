package ir

// Span is a range of the source a node was parsed from. Start and End are
// byte offsets, End exclusive. A span covers the node's properties (anchor,
// tag) and block scalar header but never a trailing comment.
type Span struct {
	Start int
	End   int
	// Entry is the offset of the entry owning the node: the key of a
	// mapping value or the '-' of a block sequence item. For other nodes
	// it equals Start.
	Entry int
	// Body is the offset of the node content after its properties.
	Body int
	// Col is the column of the entries of a block collection, or of
	// the node itself otherwise.
	Col int
	// Block is set for block (indentation based) collections.
	Block bool
}

func (s *Span) Len() int {
	return s.End - s.Start
}

// Text returns the bytes of src covered by s.
func (s *Span) Text(src []byte) []byte {
	return src[s.Start:s.End]
}

// SetSpan records the parsed location of y. It is called by the parser.
func (y *Node) SetSpan(s *Span) {
	y.Span = s
	y.origin = s
}

// Origin returns where y was parsed from, even after y was modified.
// It is nil for nodes created after parsing.
func (y *Node) Origin() *Span {
	return y.origin
}

// SpanValid reports whether y's original bytes still represent it.
func (y *Node) SpanValid() bool {
	return y.Span != nil && !y.Modified && !y.dirty && !y.restructured
}

// Dirty reports whether some descendant of y was modified.
func (y *Node) Dirty() bool {
	return y.dirty
}

// Restructured reports whether children were inserted into or removed
// from y.
func (y *Node) Restructured() bool {
	return y.restructured
}

// SetModified marks y as changed in place, dropping its span, and marks
// every ancestor as having a dirty descendant.
func (y *Node) SetModified() {
	y.Modified = true
	y.Span = nil
	y.markAncestors()
}

// SetRestructured marks y's child list as changed.
func (y *Node) SetRestructured() {
	y.restructured = true
	y.Span = nil
	y.markAncestors()
}

func (y *Node) markAncestors() {
	for p := y.Parent; p != nil; p = p.Parent {
		p.dirty = true
		p.Span = nil
	}
}

// StripPositions clears spans and edit state of y and its descendants,
// as for a node that was never parsed.
func (y *Node) StripPositions() {
	_ = y.Visit(func(n *Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		n.Span = nil
		n.origin = nil
		n.Modified = false
		n.dirty = false
		n.restructured = false
		return true, nil
	})
}
