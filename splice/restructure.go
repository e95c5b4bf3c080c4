package splice

import (
	"bytes"
	"fmt"

	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/ir"
)

// restructure writes a block collection whose entries changed. Each
// surviving entry is copied with the comment lines above it and the
// text following it up to the next entry's lead. New entries are
// formatted at the collection's column.
func (s *splicer) restructure(n *ir.Node) (int, error) {
	o := n.Origin()
	c := o.Col
	s.copy(o.Start, o.Body)
	first := true
	for i, v := range n.Values {
		var k *ir.Node
		if n.Type == ir.ObjectType {
			k = n.Fields[i]
		}
		vo := v.Origin()
		if vo == nil {
			if !first {
				s.write("\n" + spaces(c))
			}
			txt, err := s.entry(k, v, c)
			if err != nil {
				return 0, err
			}
			s.write(txt)
			first = false
			continue
		}
		lead := -1
		if vo.Entry != o.Body {
			lead = s.leadStart(vo.Entry, o.Body)
		}
		switch {
		case first && lead >= 0:
			if cs := s.firstComment(lead, vo.Entry); cs >= 0 {
				s.copy(cs, vo.Entry)
			}
		case lead >= 0:
			s.write("\n")
			s.copy(lead, vo.Entry)
		case !first:
			s.write("\n" + spaces(c))
		}
		first = false
		end, err := s.entryBody(k, v)
		if err != nil {
			return 0, err
		}
		tail := s.tailEnd(end, o.End)
		s.copy(end, tail)
		s.flushWithin(tail, v)
	}
	return s.eol(o.End), nil
}

func (s *splicer) entry(k, v *ir.Node, col int) (string, error) {
	var (
		txt string
		err error
	)
	if k != nil {
		txt, err = encode.Entry(k, v, col, s.freshOpts()...)
	} else {
		txt, err = encode.Item(v, col, s.freshOpts()...)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return txt, nil
}

func (s *splicer) entryBody(k, v *ir.Node) (int, error) {
	pos := v.Origin().Entry
	if k != nil {
		pos = s.key(pos, k, false)
	} else {
		s.flushAt(pos)
	}
	return s.child(pos, v)
}

// leadStart returns the start of the comment lines directly above the
// entry at x, not indented past it, and of the blank lines above those.
// It does not go above floor.
func (s *splicer) leadStart(x, floor int) int {
	k := s.lineStart(x)
	col := x - k
	for k > floor {
		pls := s.lineStart(k - 1)
		ln := s.src[pls : k-1]
		t := bytes.TrimLeft(ln, " \t")
		if len(t) == 0 || t[0] != '#' || len(ln)-len(t) > col {
			break
		}
		k = pls
	}
	for k > floor {
		pls := s.lineStart(k - 1)
		if len(bytes.TrimSpace(s.src[pls:k-1])) != 0 {
			break
		}
		k = pls
	}
	return max(k, floor)
}

// firstComment returns the offset of the first '#' starting a line in
// [i, j), or -1.
func (s *splicer) firstComment(i, j int) int {
	for k := i; k < j; {
		e := min(s.eol(k), j)
		t := bytes.TrimLeft(s.src[k:e], " \t")
		if len(t) > 0 && t[0] == '#' {
			return e - len(t)
		}
		k = e + 1
	}
	return -1
}

// tailEnd returns where the text following an entry ending at end
// stops: before the lead of the next content line inside the
// collection ending at limit, or at the end of the line.
func (s *splicer) tailEnd(end, limit int) int {
	e := s.eol(end)
	for e < len(s.src) {
		ls := e + 1
		if ls >= limit {
			break
		}
		le := s.eol(ls)
		t := bytes.TrimLeft(s.src[ls:le], " \t\r")
		if len(t) == 0 || t[0] == '#' {
			e = le
			continue
		}
		return max(s.leadStart(le-len(t), end)-1, end)
	}
	return s.eol(end)
}

// restructureFlow rewrites the entries of a flow collection on one line.
// Comments between its entries are lost.
func (s *splicer) restructureFlow(n *ir.Node) (int, error) {
	o := n.Origin()
	s.copy(o.Start, o.Body)
	open, shut := "[", "]"
	if n.Type == ir.ObjectType {
		open, shut = "{", "}"
	}
	s.write(open)
	for i, v := range n.Values {
		if i > 0 {
			s.write(", ")
		}
		if n.Type == ir.ObjectType {
			s.write(encode.KeyText(n.Fields[i], true))
			s.write(": ")
		}
		if v.Origin() == nil {
			f, err := encode.FlowItem(v, s.freshOpts()...)
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrSerialize, err)
			}
			s.write(f)
			continue
		}
		if _, err := s.child(v.Origin().Start, v); err != nil {
			return 0, err
		}
	}
	s.write(shut)
	return o.End, nil
}
