package splice

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/multidoc"
)

var (
	ErrSerialize           = errors.New("serialize error")
	ErrSerializeValidation = errors.New("serialized output does not reparse to the tree")
)

type Result struct {
	Output []byte
	Plan   *SavePlan
}

// Serialize writes in.Root. With cfg.Preserve the bytes of unchanged
// parts of in.Source are reused; otherwise the tree is formatted from
// scratch. The output is reparsed and compared to the tree before it is
// returned.
func Serialize(in Input, cfg format.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if in.Root == nil {
		return nil, fmt.Errorf("%w: no tree", ErrSerialize)
	}
	plan := Plan(in)
	var (
		out []byte
		err error
	)
	if !cfg.Preserve || in.Layout == nil || in.Source == nil {
		out, err = encodeAll(in, cfg)
	} else {
		s := &splicer{writer: writer{src: in.Source}, in: in, cfg: cfg, plan: plan}
		out, err = s.run()
	}
	if err != nil {
		return nil, err
	}
	if err := validate(out, in, cfg); err != nil {
		if debug.Splice() {
			debug.Logf("rejected output:\n%s\n", out)
		}
		return nil, err
	}
	return &Result{Output: out, Plan: plan}, nil
}

func encodeAll(in Input, cfg format.Config) ([]byte, error) {
	var buf bytes.Buffer
	err := encode.Encode(in.Root, &buf,
		encode.Indent(cfg.Indent),
		encode.EncodeComments(in.Comments, nil))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}

func docsOf(root *ir.Node) []*ir.Node {
	if root.Type == ir.MultiDocType {
		return root.Values
	}
	return []*ir.Node{root}
}

type splicer struct {
	writer
	in   Input
	cfg  format.Config
	plan *SavePlan
}

func (s *splicer) run() ([]byte, error) {
	s.collect()
	s.prepare()
	var parts []multidoc.Part
	for _, d := range docsOf(s.in.Root) {
		seg := -1
		if o := d.Origin(); o != nil {
			seg = s.in.Layout.Find(o.Start)
		}
		if seg < 0 {
			var buf bytes.Buffer
			if err := encode.Encode(d, &buf, s.freshOpts()...); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
			}
			parts = append(parts, multidoc.Part{Segment: -1, Body: buf.Bytes()})
			continue
		}
		body, err := s.document(d, s.in.Layout.Segments[seg])
		if err != nil {
			return nil, err
		}
		parts = append(parts, multidoc.Part{Segment: seg, Body: body})
	}
	return s.in.Layout.Join(s.src, parts), nil
}

func (s *splicer) document(d *ir.Node, seg multidoc.Segment) ([]byte, error) {
	s.out.Reset()
	o := d.Origin()
	switch s.tier(d) {
	case Fresh, Fallback:
		if err := s.freshRoot(d, seg); err != nil {
			return nil, err
		}
	default:
		s.copy(seg.BodyStart, o.Start)
		end, err := s.emit(d)
		if err != nil {
			return nil, err
		}
		s.copy(min(end, seg.BodyEnd), seg.BodyEnd)
	}
	s.flushAt(seg.BodyEnd)
	res := []byte(s.out.String())
	orig := seg.Body(s.src)
	if len(res) > 0 && res[len(res)-1] != '\n' &&
		(len(orig) == 0 || orig[len(orig)-1] == '\n' || seg.End > seg.BodyEnd) {
		res = append(res, '\n')
	}
	return res, nil
}

func (s *splicer) freshRoot(d *ir.Node, seg multidoc.Segment) error {
	o := d.Origin()
	end := s.consumed(d)
	g := s.text(seg.BodyStart, o.Start)
	ctx := encode.DocContext
	if nl := strings.LastIndexByte(g, '\n'); nl >= 0 || !seg.HasMarker() {
		last := strings.TrimPrefix(g[nl+1:], "\ufeff")
		if strings.TrimLeft(last, " \t\r") != "" {
			g += "\n"
			last = ""
		}
		ctx.Col = len(last)
	} else {
		// on the "---" line
		ctx.Compact = false
		ctx.Col = 3 + len(g)
	}
	f, err := s.fragment(d, ctx, o.Start, end)
	if err != nil {
		return err
	}
	if !ctx.Compact {
		if strings.HasPrefix(f, "\n") {
			g = strings.TrimRight(g, " \t")
		} else if g == "" {
			g = " "
		}
	}
	s.write(g)
	s.flushAt(o.Entry)
	s.write(f)
	s.copy(min(end, seg.BodyEnd), seg.BodyEnd)
	return nil
}

// tier is the planned tier of n, except that a collection parsed from a
// scalar cannot be patched in place.
func (s *splicer) tier(n *ir.Node) Tier {
	t := s.plan.Tier(n)
	if t == Patch || t == Restructure {
		o := n.Origin()
		if !o.Block && !s.flowAt(o.Body) {
			return Fresh
		}
	}
	return t
}

func (s *splicer) flowAt(off int) bool {
	return off < len(s.src) && (s.src[off] == '[' || s.src[off] == '{')
}

// emit writes a node which is not replaced as a whole and returns the
// offset where its text ends.
func (s *splicer) emit(n *ir.Node) (int, error) {
	o := n.Origin()
	t := s.tier(n)
	if debug.Splice() && t != Verbatim {
		debug.Logf("splice %s %s [%d,%d)\n", n.Path(), t, o.Start, o.End)
	}
	switch t {
	case Verbatim:
		s.copy(o.Start, o.End)
		return o.End, nil
	case Patch:
		return s.patch(n)
	case Restructure:
		if o.Block {
			return s.restructure(n)
		}
		return s.restructureFlow(n)
	}
	return 0, fmt.Errorf("%w: %s cannot be copied at %s", ErrSerialize, t, n.Path())
}

// consumed is the end of the source replaced by a fresh node. The rest
// of the last line of a block collection goes with it.
func (s *splicer) consumed(n *ir.Node) int {
	o := n.Origin()
	if o.Block {
		return s.eol(o.End)
	}
	return o.End
}

func (s *splicer) patch(n *ir.Node) (int, error) {
	o := n.Origin()
	pos := o.Start
	for i, v := range n.Values {
		vo := v.Origin()
		if vo == nil {
			return 0, fmt.Errorf("%w: unplaced value at %s", ErrSerialize, v.Path())
		}
		if n.Type == ir.ObjectType {
			pos = s.key(pos, n.Fields[i], !o.Block)
		} else {
			s.copy(pos, vo.Entry)
			s.flushAt(vo.Entry)
			pos = vo.Entry
		}
		end, err := s.child(pos, v)
		if err != nil {
			return 0, err
		}
		pos = end
	}
	if pos < o.End {
		s.copy(pos, o.End)
		pos = o.End
	}
	return pos, nil
}

// key writes the gap up to key k and k itself, returning the end of k.
func (s *splicer) key(pos int, k *ir.Node, flow bool) int {
	ko := k.Origin()
	s.copy(pos, ko.Start)
	if k.Modified {
		s.flushAt(ko.Start)
		s.write(encode.KeyText(k, flow))
	} else {
		s.copy(ko.Start, ko.End)
	}
	return ko.End
}

// child writes the gap from pos to the parsed value v, then v.
func (s *splicer) child(pos int, v *ir.Node) (int, error) {
	o := v.Origin()
	t := s.tier(v)
	if t != Fresh && t != Fallback {
		s.copy(pos, o.Start)
		return s.emit(v)
	}
	end := s.consumed(v)
	g := s.text(pos, o.Start)
	p := v.Parent
	var ctx encode.Context
	if po := p.Origin(); po == nil || !po.Block {
		ctx.Flow = true
	} else {
		g, ctx = s.blockGap(pos, g, v, po.Col, p.Type == ir.ObjectType)
	}
	f, err := s.fragment(v, ctx, o.Start, end)
	if err != nil {
		return 0, err
	}
	if strings.HasPrefix(f, "\n") {
		g = strings.TrimRight(g, " \t")
	} else if strings.HasSuffix(g, ":") {
		g += " "
	}
	s.write(g)
	s.write(f)
	return end, nil
}

// blockGap adjusts the text between an indicator (':' or '-') and a
// value of a block collection at column c to suit v, and returns the
// context for v's text.
func (s *splicer) blockGap(pos int, g string, v *ir.Node, c int, mapValue bool) (string, encode.Context) {
	ctx := encode.Context{Parent: c}
	if nl := strings.IndexByte(g, '\n'); nl >= 0 {
		k := len(g) - strings.LastIndexByte(g, '\n') - 1
		head := strings.TrimRight(g[:nl], " \t\r")
		switch {
		case isBlockCollection(v):
			if v.Type == ir.ObjectType && k > c || v.Type == ir.ArrayType && (k > c || mapValue && k == c) {
				ctx.Col, ctx.Compact = k, true
				return g, ctx
			}
			if head != ":" && head != "-" {
				in := c + s.cfg.Indent
				ctx.Col, ctx.Compact = in, true
				return head + "\n" + spaces(in), ctx
			}
			g = head
		case head == ":" || head == "-":
			g = head
		default:
			ctx.Col = k
			return g, ctx
		}
	}
	if !mapValue && !strings.HasSuffix(g, " ") {
		g += " "
	}
	ctx.Col = s.col(pos) + len(g)
	ctx.Compact = !mapValue
	return g, ctx
}

func isBlockCollection(n *ir.Node) bool {
	return n.Type.IsContainer() && n.Type != ir.MultiDocType && !n.Flow && len(n.Values) > 0
}

// fragment renders the fresh node n replacing src[a:b].
func (s *splicer) fragment(n *ir.Node, ctx encode.Context, a, b int) (string, error) {
	own := map[*comment.Comment]bool{}
	if s.in.Comments != nil {
		for _, c := range s.in.Comments.At(n, comment.Line) {
			own[c] = true
		}
	}
	opts := []encode.EncodeOption{
		encode.Indent(s.cfg.Indent),
		encode.EncodeComments(s.in.Comments, func(c *comment.Comment) bool {
			return c.Src == nil || own[c] || c.Src.Start >= a && c.Src.End <= b
		}),
		encode.FragmentLineComments(true),
	}
	if s.tier(n) == Fallback && s.in.Anchors != nil {
		opts = append(opts,
			encode.InlineAliases(s.in.Anchors.Resolver()),
			encode.DropAnchors(true))
	}
	f, err := encode.Fragment(n, ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	if debug.Splice() {
		debug.Logf("splice %s %s [%d,%d) -> %q\n", n.Path(), s.tier(n), a, b, f)
	}
	return f, nil
}

func (s *splicer) freshOpts() []encode.EncodeOption {
	return []encode.EncodeOption{
		encode.Indent(s.cfg.Indent),
		encode.EncodeComments(s.in.Comments, func(c *comment.Comment) bool {
			return c.Src == nil
		}),
	}
}

func spaces(n int) string {
	return strings.Repeat(" ", n)
}

func (s *splicer) eol(off int) int {
	if i := bytes.IndexByte(s.src[off:], '\n'); i >= 0 {
		return off + i
	}
	return len(s.src)
}

func (s *splicer) lineStart(off int) int {
	return bytes.LastIndexByte(s.src[:off], '\n') + 1
}

func (s *splicer) col(off int) int {
	return off - s.lineStart(off)
}
