package parse

import (
	"math"
	"sort"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

type lineKind int

const (
	blankLine lineKind = iota
	commentLine
	contentLine
)

type lineInfo struct {
	kind lineKind
	// first is the offset of the first non-blank byte.
	first int
}

// associator attaches the comments of one document to its nodes.
//
// A comment at the end of a content line belongs to the deepest value
// ending on that line. A comment on its own line directly above a line,
// and not indented past it, belongs above the entry starting there.
// Other comments go below the deepest value ending on the previous
// content line whose entry is not indented past the comment, as
// standalone when a blank line separates them.
type associator struct {
	src    []byte
	pd     *token.PosDoc
	store  *comment.Store
	start  int
	end    int
	values []*ir.Node
	keys   []*ir.Node

	firstLine int
	lines     []lineInfo
	endLine   map[int][]*ir.Node
	startLine map[int][]*ir.Node
	keyLine   map[int][]*ir.Node
	byEntry   map[int][]*ir.Node
	flows     []*ir.Node
}

func (a *associator) line(off int) int {
	l, _ := a.pd.LineCol(off)
	return l
}

func (a *associator) col(off int) int {
	_, c := a.pd.LineCol(off)
	return c
}

func (a *associator) lineStart(off int) int {
	for off > 0 && a.src[off-1] != '\n' {
		off--
	}
	return off
}

func (a *associator) eol(off int) int {
	for off < len(a.src) && a.src[off] != '\n' {
		off++
	}
	return off
}

func (a *associator) run(cs []rawComment) {
	if len(cs) == 0 {
		return
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].start < cs[j].start })
	own := map[int]bool{}
	starts := map[int]bool{}
	for _, c := range cs {
		starts[c.start] = true
		ls := a.lineStart(c.start)
		if onlyBlanks(a.src[ls:c.start]) {
			own[c.start] = true
		}
	}
	a.index(starts)
	for _, c := range cs {
		a.attach(c, own[c.start])
	}
}

func onlyBlanks(d []byte) bool {
	for _, c := range d {
		if !isBlank(c) {
			return false
		}
	}
	return true
}

func inFlow(n *ir.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Flow {
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

func (a *associator) index(starts map[int]bool) {
	a.firstLine = a.line(a.start)
	last := a.line(max(a.start, a.end-1))
	for l := a.firstLine; l <= last; l++ {
		ls := a.pd.Offset(l, 0)
		if l == a.firstLine {
			ls = a.start
		}
		j := ls
		for j < a.end && isBlank(a.src[j]) {
			j++
		}
		info := lineInfo{first: j}
		switch {
		case j >= a.end || a.src[j] == '\n':
			info.kind = blankLine
		case starts[j]:
			info.kind = commentLine
		default:
			info.kind = contentLine
		}
		a.lines = append(a.lines, info)
	}
	a.endLine = map[int][]*ir.Node{}
	a.startLine = map[int][]*ir.Node{}
	a.keyLine = map[int][]*ir.Node{}
	a.byEntry = map[int][]*ir.Node{}
	for _, n := range a.values {
		if inFlow(n) {
			continue
		}
		s := n.Origin()
		if n.Flow {
			a.flows = append(a.flows, n)
		}
		el := a.line(s.End)
		if s.End > s.Start {
			el = a.line(s.End - 1)
		}
		a.endLine[el] = append(a.endLine[el], n)
		sl := a.line(s.Start)
		a.startLine[sl] = append(a.startLine[sl], n)
		if enl := a.line(s.Entry); enl != sl {
			a.startLine[enl] = append(a.startLine[enl], n)
		}
		a.byEntry[s.Entry] = append(a.byEntry[s.Entry], n)
	}
	for _, k := range a.keys {
		if k.Parent == nil || k.Parent.Flow || inFlow(k.Parent) {
			continue
		}
		kl := a.line(k.Origin().End - 1)
		a.keyLine[kl] = append(a.keyLine[kl], k)
	}
}

func (a *associator) info(l int) (lineInfo, bool) {
	i := l - a.firstLine
	if i < 0 || i >= len(a.lines) {
		return lineInfo{}, false
	}
	return a.lines[i], true
}

// deepest picks the most nested node whose entry column is at most
// maxCol, preferring the one ending last.
func (a *associator) deepest(nodes []*ir.Node, maxCol int) *ir.Node {
	var (
		res *ir.Node
		d   = -1
	)
	for _, n := range nodes {
		s := n.Origin()
		if a.col(s.Entry) > maxCol {
			continue
		}
		nd := depth(n)
		if nd > d || nd == d && s.End > res.Origin().End {
			res, d = n, nd
		}
	}
	return res
}

// enclosingFlow returns the outermost flow collection containing off.
func (a *associator) enclosingFlow(off int) *ir.Node {
	for _, n := range a.flows {
		s := n.Origin()
		if s.Body < off && off < s.End {
			return n
		}
	}
	return nil
}

func (a *associator) attach(c rawComment, own bool) {
	src := &comment.Range{Start: c.start, End: c.end}
	if own {
		src.Start = a.lineStart(c.start)
		src.End = a.eol(c.end)
		if src.End < a.end {
			src.End++
		}
	} else {
		for src.Start > a.start && isBlank(a.src[src.Start-1]) {
			src.Start--
		}
	}
	add := func(t *ir.Node, pos comment.Position) {
		a.store.Add(t, &comment.Comment{Position: pos, Text: string(a.src[c.start:c.end]), Src: src})
	}
	if f := a.enclosingFlow(c.start); f != nil {
		if own {
			add(f, comment.Below)
		} else {
			add(f, comment.Line)
		}
		return
	}
	l := a.line(c.start)
	if !own {
		if t := a.inlineTarget(l); t != nil {
			add(t, comment.Line)
			return
		}
	}
	prev, next := -1, -1
	for k := l - 1; k >= a.firstLine; k-- {
		if in, _ := a.info(k); in.kind == contentLine {
			prev = k
			break
		}
	}
	for k := l + 1; ; k++ {
		in, ok := a.info(k)
		if !ok {
			break
		}
		if in.kind == contentLine {
			next = k
			break
		}
	}
	if next >= 0 && (prev < 0 || a.leadStart(next) <= l) {
		x, _ := a.info(next)
		if t := a.deepest(a.byEntry[x.first], math.MaxInt); t != nil {
			add(t, comment.Above)
			return
		}
	}
	if prev < 0 {
		return
	}
	pos := comment.Below
	for k := prev + 1; k < l; k++ {
		if in, _ := a.info(k); in.kind == blankLine {
			pos = comment.Standalone
			break
		}
	}
	t := a.deepest(a.endLine[prev], a.col(c.start))
	if t == nil {
		t = a.deepest(a.endLine[prev], math.MaxInt)
	}
	if t == nil {
		return
	}
	if pos == comment.Standalone {
		if par := t.Parent; par != nil && par.Type != ir.MultiDocType && t.ParentIndex == len(par.Values)-1 {
			t = a.store.End(par)
		}
	}
	add(t, pos)
}

// leadStart returns the first line of the comment lines directly above
// line next which are not indented past its content.
func (a *associator) leadStart(next int) int {
	x, _ := a.info(next)
	xcol := a.col(x.first)
	k := next - 1
	for ; k >= a.firstLine; k-- {
		in, _ := a.info(k)
		if in.kind != commentLine || a.col(in.first) > xcol {
			break
		}
	}
	return k + 1
}

func (a *associator) inlineTarget(l int) *ir.Node {
	if t := a.deepest(a.endLine[l], math.MaxInt); t != nil {
		return t
	}
	if ks := a.keyLine[l]; len(ks) > 0 {
		k := ks[len(ks)-1]
		return k.Parent.Values[k.ParentIndex]
	}
	return a.deepest(a.startLine[l], math.MaxInt)
}
