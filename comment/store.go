// Package comment associates YAML comments with the nodes of a tree.
//
// A comment sits at one of four positions relative to its target: on
// the lines above it, at the end of its line, directly below it or
// below it separated by a blank line. Comments at the end of a block
// with no following node target the block's End marker.
package comment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/yedit/ir"
)

var ErrComment = errors.New("bad comment")

type Position int

const (
	Above Position = iota
	Line
	Below
	Standalone
)

func (p Position) String() string {
	switch p {
	case Above:
		return "above"
	case Line:
		return "line"
	case Below:
		return "below"
	case Standalone:
		return "standalone"
	default:
		return "<unknown position>"
	}
}

func ParsePosition(s string) (Position, error) {
	for _, p := range []Position{Above, Line, Below, Standalone} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown position %q", ErrComment, s)
}

// Range is a byte range of the parsed source.
type Range struct {
	Start int
	End   int
}

type Comment struct {
	Position Position
	// Text starts with '#'.
	Text string
	// Src is the text to remove from the source if the comment is
	// detached. It is nil for comments attached after parsing.
	Src *Range
}

type Store struct {
	m       map[*ir.Node][]*Comment
	ends    map[*ir.Node]*ir.Node
	dropped []*Comment
}

func New() *Store {
	return &Store{
		m:    map[*ir.Node][]*Comment{},
		ends: map[*ir.Node]*ir.Node{},
	}
}

// End returns the end-of-block marker of container.
func (s *Store) End(container *ir.Node) *ir.Node {
	if e, ok := s.ends[container]; ok {
		return e
	}
	e := &ir.Node{Type: ir.NullType, Parent: container, ParentIndex: -1}
	s.ends[container] = e
	return e
}

// Marker returns the end marker of container if one was made, or nil.
func (s *Store) Marker(container *ir.Node) *ir.Node {
	return s.ends[container]
}

// IsEnd returns the container of an end marker.
func (s *Store) IsEnd(n *ir.Node) (*ir.Node, bool) {
	if n == nil || n.ParentIndex != -1 || n.Parent == nil {
		return nil, false
	}
	if s.ends[n.Parent] != n {
		return nil, false
	}
	return n.Parent, true
}

// Normalize turns text into comment text, adding "# " when the leading
// '#' is missing.
func Normalize(text string) (string, error) {
	if strings.ContainsAny(text, "\r\n") {
		return "", fmt.Errorf("%w: comment text spans lines", ErrComment)
	}
	text = strings.TrimRight(text, " \t")
	if strings.HasPrefix(text, "#") {
		return text, nil
	}
	return "# " + text, nil
}

// Attach adds a comment on target at pos.
func (s *Store) Attach(target *ir.Node, pos Position, text string) (*Comment, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: no target", ErrComment)
	}
	if _, isEnd := s.IsEnd(target); isEnd && (pos == Above || pos == Line) {
		return nil, fmt.Errorf("%w: %s comment needs a node, not an end of block", ErrComment, pos)
	}
	text, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	c := &Comment{Position: pos, Text: text}
	s.Add(target, c)
	return c, nil
}

// Add records c on target as is. The parser uses it for comments read
// from the source.
func (s *Store) Add(target *ir.Node, c *Comment) {
	s.m[target] = append(s.m[target], c)
}

// For returns the comments of target in order.
func (s *Store) For(target *ir.Node) []*Comment {
	return append([]*Comment(nil), s.m[target]...)
}

// At returns the comments of target at pos.
func (s *Store) At(target *ir.Node, pos Position) []*Comment {
	var res []*Comment
	for _, c := range s.m[target] {
		if c.Position == pos {
			res = append(res, c)
		}
	}
	return res
}

// Detach removes and returns all comments of target.
func (s *Store) Detach(target *ir.Node) []*Comment {
	res := s.m[target]
	delete(s.m, target)
	s.drop(res)
	return res
}

// DetachAt removes and returns the comments of target at pos.
func (s *Store) DetachAt(target *ir.Node, pos Position) []*Comment {
	var keep, res []*Comment
	for _, c := range s.m[target] {
		if c.Position == pos {
			res = append(res, c)
		} else {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		delete(s.m, target)
	} else {
		s.m[target] = keep
	}
	s.drop(res)
	return res
}

func (s *Store) drop(cs []*Comment) {
	for _, c := range cs {
		if c.Src != nil {
			s.dropped = append(s.dropped, c)
		}
	}
}

// Dropped returns the detached comments which came from the source.
func (s *Store) Dropped() []*Comment {
	return s.dropped
}

// Forget removes the comments of node, its descendants and their end
// markers. Unlike Detach it records nothing: the text goes away with
// the nodes.
func (s *Store) Forget(node *ir.Node) {
	_ = node.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		delete(s.m, n)
		if e, ok := s.ends[n]; ok {
			delete(s.m, e)
			delete(s.ends, n)
		}
		return true, nil
	})
}

// Len is the number of comments held.
func (s *Store) Len() int {
	n := 0
	for _, cs := range s.m {
		n += len(cs)
	}
	return n
}

// Each calls f for every target with comments.
func (s *Store) Each(f func(target *ir.Node, cs []*Comment)) {
	for t, cs := range s.m {
		f(t, cs)
	}
}
