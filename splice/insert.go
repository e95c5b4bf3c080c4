package splice

import (
	"strings"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
)

// collect lists the source ranges of detached comments and the places
// where comments attached since parsing go. Comments under a node
// written fresh are left to the encoder, as are line comments of the
// fresh node itself, whose source text is then removed.
func (s *splicer) collect() {
	st := s.in.Comments
	if st == nil {
		return
	}
	for _, c := range st.Dropped() {
		s.dels = append(s.dels, *c.Src)
	}
	var pending []func()
	st.Each(func(t *ir.Node, cs []*comment.Comment) {
		owner, end := t, false
		if cont, ok := st.IsEnd(t); ok {
			owner, end = cont, true
		}
		if owner.Origin() == nil || s.underFresh(owner) {
			return
		}
		ot := s.tier(owner)
		fresh := ot == Fresh || ot == Fallback
		if end && fresh {
			return
		}
		for _, c := range cs {
			if fresh && c.Position == comment.Line {
				if c.Src != nil {
					s.dels = append(s.dels, *c.Src)
				}
				continue
			}
			if c.Src != nil {
				continue
			}
			pending = append(pending, func() {
				s.ins = append(s.ins, s.insertion(owner, end, c))
			})
		}
	})
	// line positions depend on the deleted ranges
	for _, f := range pending {
		f()
	}
}

// underFresh reports whether an ancestor of n is written fresh.
func (s *splicer) underFresh(n *ir.Node) bool {
	for p := n.Parent; p != nil && p.Type != ir.MultiDocType; p = p.Parent {
		if t := s.tier(p); t == Fresh || t == Fallback {
			return true
		}
	}
	return false
}

func depth(n *ir.Node) int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func (s *splicer) insertion(n *ir.Node, end bool, c *comment.Comment) *insertion {
	o := n.Origin()
	d := depth(n)
	x := &insertion{owner: n}
	below := func(col int) string {
		pre := "\n"
		if c.Position == comment.Standalone {
			pre = "\n\n"
		}
		return pre + spaces(col) + c.Text
	}
	switch {
	case end:
		x.group, x.order = groupBelow, -(2*d + 1)
		x.at = s.eol(o.End)
		x.text = below(o.Col)
	case c.Position == comment.Above:
		x.group, x.order = groupAbove, 2*d
		x.at = o.Entry
		x.text = c.Text + "\n" + spaces(s.col(o.Entry))
	case c.Position == comment.Line:
		x.group, x.order = groupLine, -2*d
		x.at = s.lineAt(n)
		x.text = " " + c.Text
	default:
		x.group, x.order = groupBelow, -2*d
		x.at = s.eol(o.End)
		x.text = below(s.col(o.Entry))
	}
	return x
}

// lineAt is where a comment at the end of n's line goes: after a
// scalar, after a block scalar header, or at the end of the line
// introducing a block collection.
func (s *splicer) lineAt(n *ir.Node) int {
	o := n.Origin()
	switch {
	case o.Block:
		e := s.eol(o.Entry)
		for _, d := range s.dels {
			if d.Start >= o.Entry && d.Start < e {
				e = d.Start
			}
		}
		for e > o.Entry && (s.src[e-1] == ' ' || s.src[e-1] == '\t' || s.src[e-1] == '\r') {
			e--
		}
		return e
	case n.Type == ir.StringType && n.Style != ir.Plain && o.Body < len(s.src) &&
		(s.src[o.Body] == '|' || s.src[o.Body] == '>'):
		i := o.Body + 1
		for i < len(s.src) && strings.IndexByte("+-0123456789", s.src[i]) >= 0 {
			i++
		}
		return i
	}
	return o.End
}
