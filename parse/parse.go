package parse

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/multidoc"
	"github.com/signadot/yedit/token"
)

const maxDepth = 512

// Result is a parsed source.
type Result struct {
	Root     *ir.Node
	Source   []byte
	Anchors  *anchor.Registry
	Comments *comment.Store
	Layout   *multidoc.Layout
	// Docs holds the root of each document, in order.
	Docs     []*ir.Node
	Filename string
}

type parser struct {
	src  []byte
	pd   *token.PosDoc
	opts *parseOpts

	// bounds of the document body being parsed
	start int
	end   int

	i     int
	depth int

	comments []rawComment
	seen     map[int]bool
	values   []*ir.Node
	keys     []*ir.Node
}

type rawComment struct {
	start int
	end   int
}

// Parse parses src. On error nothing is returned but the error, which is
// an *Error.
func Parse(src []byte, opts ...ParseOption) (*Result, error) {
	o := newOpts(opts)
	pd := token.NewPosDoc(src)
	if o.maxSize > 0 && len(src) > o.maxSize {
		return nil, &Error{
			Err:      fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(src), o.maxSize),
			Pos:      *pd.Pos(0),
			Filename: o.filename,
		}
	}
	if !utf8.Valid(src) {
		off := invalidUTF8(src)
		return nil, &Error{
			Err:      fmt.Errorf("%w: %w", ErrEncoding, token.ErrBadUTF8),
			Pos:      *pd.Pos(off),
			Filename: o.filename,
		}
	}
	layout, err := multidoc.Split(src)
	if err != nil {
		return nil, &Error{Err: err, Pos: *pd.Pos(0), Filename: o.filename}
	}
	res := &Result{
		Source:   src,
		Anchors:  anchor.New(),
		Comments: comment.New(),
		Layout:   layout,
		Filename: o.filename,
	}
	p := &parser{src: src, pd: pd, opts: o}
	type docState struct {
		comments []rawComment
		values   []*ir.Node
		keys     []*ir.Node
		seg      multidoc.Segment
	}
	states := make([]docState, 0, len(layout.Segments))
	for _, seg := range layout.Segments {
		p.start, p.end = seg.BodyStart, seg.BodyEnd
		p.comments, p.values, p.keys = nil, nil, nil
		p.seen = map[int]bool{}
		root, err := p.parseDoc()
		if err != nil {
			return nil, p.wrap(err)
		}
		res.Docs = append(res.Docs, root)
		states = append(states, docState{p.comments, p.values, p.keys, seg})
	}
	if len(res.Docs) > 1 {
		res.Root = ir.FromDocs(res.Docs)
	} else {
		res.Root = res.Docs[0]
	}
	for _, d := range res.Docs {
		if err := res.Anchors.Register(d); err != nil {
			return nil, p.wrapAt(err, d)
		}
	}
	for _, d := range res.Docs {
		if err := checkRecursion(res.Anchors, d); err != nil {
			return nil, p.wrap(err)
		}
	}
	if o.comments {
		for _, st := range states {
			a := &associator{
				src:    src,
				pd:     pd,
				store:  res.Comments,
				start:  st.seg.BodyStart,
				end:    st.seg.BodyEnd,
				values: st.values,
				keys:   st.keys,
			}
			a.run(st.comments)
		}
	}
	if debug.Parse() {
		debug.Logf("parsed %d document(s), %d anchor(s), %d comment(s)\n",
			len(res.Docs), len(res.Anchors.Anchors()), res.Comments.Len())
	}
	return res, nil
}

func invalidUTF8(d []byte) int {
	i := 0
	for i < len(d) {
		r, sz := utf8.DecodeRune(d[i:])
		if r == utf8.RuneError && sz <= 1 {
			return i
		}
		i += sz
	}
	return i
}

// posErr is an error at an offset, turned into an *Error by wrap.
type posErr struct {
	err error
	off int
}

func (e *posErr) Error() string { return e.err.Error() }
func (e *posErr) Unwrap() error { return e.err }

func (p *parser) errAt(off int, format string, args ...any) error {
	return &posErr{err: fmt.Errorf("%w: "+format, append([]any{ErrParse}, args...)...), off: off}
}

func (p *parser) errWrap(off int, err error) error {
	return &posErr{err: err, off: off}
}

func (p *parser) wrap(err error) error {
	var pe *posErr
	if errors.As(err, &pe) {
		return &Error{Err: pe.err, Pos: *p.pd.Pos(pe.off), Filename: p.opts.filename}
	}
	var te *token.TokenizeErr
	if errors.As(err, &te) {
		return &Error{Err: te.Err, Pos: te.Pos, Filename: p.opts.filename}
	}
	return &Error{Err: err, Pos: *p.pd.Pos(0), Filename: p.opts.filename}
}

// wrapAt positions a registry error at the second definition of an
// anchor, falling back to the document root.
func (p *parser) wrapAt(err error, doc *ir.Node) error {
	off := 0
	if s := doc.Origin(); s != nil {
		off = s.Start
	}
	seen := map[string]bool{}
	found := false
	doc.Walk(func(n *ir.Node) {
		if found || n.Anchor == "" {
			return
		}
		if seen[n.Anchor] && n.Origin() != nil {
			found = true
			off = n.Origin().Start
			return
		}
		seen[n.Anchor] = true
	})
	return &Error{Err: err, Pos: *p.pd.Pos(off), Filename: p.opts.filename}
}

func checkRecursion(reg *anchor.Registry, doc *ir.Node) error {
	var err error
	doc.Walk(func(n *ir.Node) {
		if err != nil || n.Type != ir.AliasType {
			return
		}
		if t := reg.ResolveAlias(n); t != nil && t.Contains(n) {
			err = &posErr{
				err: fmt.Errorf("%w: alias *%s refers to an enclosing node", ErrParse, n.Alias),
				off: n.Origin().Start,
			}
		}
	})
	return err
}

func (p *parser) parseDoc() (*ir.Node, error) {
	p.i = p.start
	if p.i == 0 && bytes.HasPrefix(p.src, []byte("\xef\xbb\xbf")) {
		p.i = 3
	}
	if _, err := p.skipTrivia(false); err != nil {
		return nil, err
	}
	if p.i >= p.end {
		n := ir.Null()
		p.setSpan(n, &ir.Span{Start: p.end, End: p.end, Entry: p.end, Body: p.end, Col: p.col(p.end)})
		return n, nil
	}
	entry := p.i
	pr, err := p.props(false)
	if err != nil {
		return nil, err
	}
	var root *ir.Node
	if pr != nil && p.atLineEnd() {
		root, err = p.valueAfterLine(-1, entry, pr.start, pr, false)
	} else {
		root, err = p.blockContent(-1, entry, pr, true)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectLineEnd(false); err != nil {
		return nil, err
	}
	if _, err := p.skipTrivia(false); err != nil {
		return nil, err
	}
	if p.i < p.end {
		return nil, p.errAt(p.i, "unexpected content after document root")
	}
	return root, nil
}

func (p *parser) setSpan(n *ir.Node, s *ir.Span) {
	n.SetSpan(s)
	if p.opts.positions != nil {
		p.opts.positions[n] = p.pd.Pos(s.Start)
	}
}

func (p *parser) at(i int) byte {
	if i < p.start || i >= p.end {
		return 0
	}
	return p.src[i]
}

func (p *parser) col(i int) int {
	_, c := p.pd.LineCol(i)
	return c
}

func (p *parser) line(i int) int {
	l, _ := p.pd.LineCol(i)
	return l
}

// eol returns the offset of the line break ending the line of i, or the
// end of the body.
func (p *parser) eol(i int) int {
	j := bytes.IndexByte(p.src[i:p.end], '\n')
	if j == -1 {
		return p.end
	}
	return i + j
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// sepAt reports whether offset i separates tokens: a blank, a line
// break or the end of the body.
func (p *parser) sepAt(i int) bool {
	c := p.at(i)
	return c == 0 || c == '\n' || isBlank(c)
}

func isFlowIndicator(c byte) bool {
	switch c {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.i < p.end && isBlank(p.src[p.i]) {
		p.i++
	}
}

// atLineEnd reports whether only blanks and a comment remain on the
// current line.
func (p *parser) atLineEnd() bool {
	j := p.i
	for j < p.end && isBlank(p.src[j]) {
		j++
	}
	if j >= p.end {
		return true
	}
	c := p.src[j]
	return c == '\n' || c == '#' && (j == p.start || j > 0 && (isBlank(p.src[j-1]) || p.src[j-1] == '\n'))
}

// expectLineEnd fails unless the current line has nothing left but
// blanks and a comment. In flow context a flow indicator may follow.
func (p *parser) expectLineEnd(flow bool) error {
	p.skipSpace()
	if p.atLineEnd() {
		return nil
	}
	if flow && (isFlowIndicator(p.src[p.i]) || p.src[p.i] == ':') {
		return nil
	}
	return p.errAt(p.i, "unexpected %q", p.src[p.i])
}

// skipTrivia skips blanks, comments and line breaks, recording the
// comments. It reports whether a line break was crossed. Outside flow
// context tabs may not indent content.
func (p *parser) skipTrivia(flow bool) (bool, error) {
	crossed := false
	lineStart := -1
	for p.i < p.end {
		c := p.src[p.i]
		switch {
		case isBlank(c):
			p.i++
		case c == '\n':
			p.i++
			crossed = true
			lineStart = p.i
		case c == '#' && (p.i == p.start || isBlank(p.src[p.i-1]) || p.src[p.i-1] == '\n'):
			p.comment(p.i)
			p.i = p.eol(p.i)
		default:
			if !flow && lineStart != -1 && bytes.IndexByte(p.src[lineStart:p.i], '\t') != -1 {
				return crossed, p.errWrap(p.i, fmt.Errorf("%w: %w", ErrParse, token.ErrTab))
			}
			return crossed, nil
		}
	}
	return crossed, nil
}

func (p *parser) comment(i int) {
	if p.seen[i] {
		return
	}
	p.seen[i] = true
	e := p.eol(i)
	for e > i && isBlank(p.src[e-1]) {
		e--
	}
	p.comments = append(p.comments, rawComment{start: i, end: e})
}

func (p *parser) enter(off int) error {
	p.depth++
	if p.depth > maxDepth {
		return p.errAt(off, "nesting deeper than %d", maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}
