package parse

import (
	"bytes"
	"fmt"

	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

// props are the anchor and tag properties preceding a node.
type props struct {
	start  int
	end    int
	anchor string
	tag    string
}

func (pr *props) apply(n *ir.Node) {
	if pr == nil {
		return
	}
	n.Anchor = pr.anchor
	n.Tag = pr.tag
}

// props reads node properties at p.i, leaving p.i after the blanks
// following them. It returns nil when there are none.
func (p *parser) props(flow bool) (*props, error) {
	var pr *props
	for {
		c := p.at(p.i)
		if c != '&' && c != '!' {
			return pr, nil
		}
		if pr == nil {
			pr = &props{start: p.i}
		}
		start := p.i
		j := p.i + 1
		if c == '!' && p.at(j) == '<' {
			k := bytes.IndexByte(p.src[j:p.end], '>')
			if k == -1 {
				return nil, p.errAt(start, "unterminated verbatim tag")
			}
			j += k + 1
		} else {
			for j < p.end && !p.sepAt(j) && !isFlowIndicator(p.src[j]) {
				j++
			}
		}
		switch c {
		case '&':
			if j == start+1 {
				return nil, p.errAt(start, "empty anchor name")
			}
			if pr.anchor != "" {
				return nil, p.errAt(start, "node has two anchors")
			}
			pr.anchor = string(p.src[start+1 : j])
		default:
			if pr.tag != "" {
				return nil, p.errAt(start, "node has two tags")
			}
			pr.tag = string(p.src[start:j])
		}
		pr.end = j
		p.i = j
		if !p.sepAt(p.i) && !(flow && isFlowIndicator(p.at(p.i))) {
			return nil, p.errAt(p.i, "expected a blank after node property")
		}
		p.skipSpace()
	}
}

func (p *parser) seqIndicator(i int) bool {
	return p.at(i) == '-' && p.sepAt(i+1)
}

// finish records the span of a parsed value node.
func (p *parser) finish(n *ir.Node, body, end, entry int, pr *props) *ir.Node {
	s := &ir.Span{Start: body, End: end, Entry: entry, Body: body}
	if pr != nil {
		s.Start = pr.start
		pr.apply(n)
	}
	s.Col = p.col(s.Start)
	p.setSpan(n, s)
	p.values = append(p.values, n)
	return n
}

// empty is a value with no content, located at off.
func (p *parser) empty(off, entry int, pr *props) *ir.Node {
	n := ir.Null()
	if pr != nil {
		return p.finish(n, pr.end, pr.end, entry, pr)
	}
	return p.finish(n, off, off, entry, nil)
}

// value parses what follows a ':' or '-' indicator, p.i being just
// after it. indent is the column of the entries of the collection
// holding the indicator.
func (p *parser) value(indent, entry int, mapValue bool) (*ir.Node, error) {
	after := p.i
	p.skipSpace()
	pr, err := p.props(false)
	if err != nil {
		return nil, err
	}
	if !p.atLineEnd() {
		return p.blockContent(indent, entry, pr, !mapValue)
	}
	return p.valueAfterLine(indent, entry, after, pr, mapValue)
}

// valueAfterLine looks for the content of a value on the lines after
// the current one. A map value may be a sequence at the map's own
// indentation.
func (p *parser) valueAfterLine(indent, entry, after int, pr *props, mapValue bool) (*ir.Node, error) {
	save := p.i
	if _, err := p.skipTrivia(false); err != nil {
		return nil, err
	}
	if p.i < p.end {
		c := p.col(p.i)
		if c > indent || mapValue && c == indent && p.seqIndicator(p.i) {
			if pr == nil {
				var err error
				pr, err = p.props(false)
				if err != nil {
					return nil, err
				}
				if pr != nil && p.atLineEnd() {
					return p.valueAfterLine(indent, entry, pr.start, pr, mapValue)
				}
			}
			return p.blockContent(indent, entry, pr, true)
		}
	}
	p.i = save
	return p.empty(after, entry, pr), nil
}

// blockContent parses a node in block context whose content starts at
// p.i. compact allows a block collection to start there.
func (p *parser) blockContent(indent, entry int, pr *props, compact bool) (*ir.Node, error) {
	if err := p.enter(p.i); err != nil {
		return nil, err
	}
	defer p.leave()
	c := p.at(p.i)
	sameLine := pr != nil && p.line(pr.end) == p.line(p.i)
	switch {
	case p.seqIndicator(p.i):
		if !compact {
			return nil, p.errAt(p.i, "block sequence entries are not allowed here")
		}
		if sameLine {
			return nil, p.errAt(pr.start, "properties must precede a block sequence on their own line")
		}
		return p.blockSeq(p.col(p.i), entry, pr)
	case c == '?' && p.sepAt(p.i+1):
		return nil, p.errWrap(p.i, fmt.Errorf("%w: %w", ErrParse, errComplexKey))
	case c == '|' || c == '>':
		return p.blockScalar(indent, entry, pr)
	}
	if p.implicitKey(p.i) {
		if !compact {
			return nil, p.errAt(p.i, "mapping values are not allowed here")
		}
		if sameLine {
			return nil, p.errWrap(pr.start, fmt.Errorf("%w: %w", ErrParse, errKeyProps))
		}
		return p.blockMap(p.col(p.i), entry, pr)
	}
	switch c {
	case '[', '{':
		n, err := p.flow(entry, pr)
		if err != nil {
			return nil, err
		}
		if p.colonFollows() {
			return nil, p.errWrap(n.Origin().Start, fmt.Errorf("%w: %w", ErrParse, errComplexKey))
		}
		return n, nil
	case '*':
		if pr != nil {
			return nil, p.errAt(pr.start, "an alias cannot have properties")
		}
		n, err := p.alias(entry)
		if err != nil {
			return nil, err
		}
		if p.colonFollows() {
			return nil, p.errWrap(n.Origin().Start, fmt.Errorf("%w: %w", ErrParse, errAliasKey))
		}
		return n, nil
	case '"', '\'':
		return p.quoted(entry, pr)
	}
	return p.plain(indent, entry, pr, false)
}

// colonFollows reports whether a mapping indicator follows on the
// current line.
func (p *parser) colonFollows() bool {
	j := p.i
	for isBlank(p.at(j)) {
		j++
	}
	return p.at(j) == ':' && p.sepAt(j+1)
}

// implicitKey reports whether a single line mapping key starts at i.
func (p *parser) implicitKey(i int) bool {
	switch c := p.at(i); c {
	case '"', '\'':
		_, n, err := token.DecodeQuoted(p.src[i:p.end])
		if err != nil || bytes.IndexByte(p.src[i:i+n], '\n') != -1 {
			return false
		}
		j := i + n
		for isBlank(p.at(j)) {
			j++
		}
		return p.at(j) == ':' && p.sepAt(j+1)
	case 0, '[', '{', ']', '}', ',', '*', '&', '!', '|', '>', '#', '%', '@', '`':
		return false
	}
	e, colon, _ := p.scanPlain(i, false)
	return colon && e > i
}

// scanPlain scans a plain scalar on the line of i. It returns the end
// of its text, whether a mapping indicator stopped it and where the
// scan stopped.
func (p *parser) scanPlain(i int, flow bool) (int, bool, int) {
	j := i
	colon := false
scan:
	for j < p.end {
		c := p.src[j]
		switch {
		case c == '\n':
			break scan
		case c == ':' && (p.sepAt(j+1) || flow && isFlowIndicator(p.at(j+1))):
			colon = true
			break scan
		case c == '#' && j > i && isBlank(p.src[j-1]):
			break scan
		case flow && isFlowIndicator(c):
			break scan
		}
		j++
	}
	e := j
	for e > i && isBlank(p.src[e-1]) {
		e--
	}
	return e, colon, j
}

func (p *parser) blockMap(col, entry int, pr *props) (*ir.Node, error) {
	m := &ir.Node{Type: ir.ObjectType}
	first := p.i
	end := first
	for {
		k, err := p.keyNode(false)
		if err != nil {
			return nil, err
		}
		if m.KeyIndex(k.String) != -1 {
			return nil, p.errAt(k.Origin().Start, "duplicate mapping key %q", k.String)
		}
		j := p.i
		for isBlank(p.at(j)) {
			j++
		}
		if p.at(j) != ':' {
			return nil, p.errAt(j, "expected ':' after mapping key")
		}
		if !p.sepAt(j + 1) {
			return nil, p.errAt(j+1, "expected a blank after ':'")
		}
		p.i = j + 1
		v, err := p.value(col, k.Origin().Start, true)
		if err != nil {
			return nil, err
		}
		if err := p.expectLineEnd(false); err != nil {
			return nil, err
		}
		link(m, k, v)
		end = max(v.Origin().End, j+1)
		save := p.i
		if _, err := p.skipTrivia(false); err != nil {
			return nil, err
		}
		if p.i >= p.end || p.col(p.i) < col {
			p.i = save
			break
		}
		if p.col(p.i) > col {
			return nil, p.errAt(p.i, "bad indentation of a mapping entry")
		}
	}
	p.finish(m, first, end, entry, pr)
	m.Span.Col = col
	m.Span.Block = true
	return m, nil
}

func link(m, k, v *ir.Node) {
	i := len(m.Values)
	k.Parent, k.ParentIndex, k.ParentField = m, i, k.String
	v.Parent, v.ParentIndex, v.ParentField = m, i, k.String
	m.Fields = append(m.Fields, k)
	m.Values = append(m.Values, v)
}

func appendItem(s, v *ir.Node) {
	v.Parent, v.ParentIndex, v.ParentField = s, len(s.Values), ""
	s.Values = append(s.Values, v)
}

// keyNode reads a mapping key at p.i, leaving p.i at its end.
func (p *parser) keyNode(flow bool) (*ir.Node, error) {
	i := p.i
	c := p.at(i)
	switch {
	case c == '&' || c == '!':
		return nil, p.errWrap(i, fmt.Errorf("%w: %w", ErrParse, errKeyProps))
	case c == '?' && (p.sepAt(i+1) || flow && isFlowIndicator(p.at(i+1))):
		return nil, p.errWrap(i, fmt.Errorf("%w: %w", ErrParse, errComplexKey))
	case c == '[' || c == '{':
		return nil, p.errWrap(i, fmt.Errorf("%w: %w", ErrParse, errComplexKey))
	case c == '*':
		return nil, p.errWrap(i, fmt.Errorf("%w: %w", ErrParse, errAliasKey))
	case c == '-' && p.sepAt(i+1):
		return nil, p.errAt(i, "expected a mapping key, found a sequence entry")
	}
	k := &ir.Node{Type: ir.StringType}
	var end int
	switch c {
	case '"', '\'':
		v, n, err := token.DecodeQuoted(p.src[i:p.end])
		if err != nil {
			return nil, p.errWrap(i, fmt.Errorf("%w: %w", ErrParse, err))
		}
		if bytes.IndexByte(p.src[i:i+n], '\n') != -1 {
			return nil, p.errAt(i, "mapping keys must fit on one line")
		}
		k.String = v
		k.Quote = c
		end = i + n
	default:
		e, _, _ := p.scanPlain(i, flow)
		if e == i {
			return nil, p.errAt(i, "expected a mapping key")
		}
		k.String = string(p.src[i:e])
		end = e
	}
	p.setSpan(k, &ir.Span{Start: i, End: end, Entry: i, Body: i, Col: p.col(i)})
	p.keys = append(p.keys, k)
	p.i = end
	return k, nil
}

func (p *parser) blockSeq(col, entry int, pr *props) (*ir.Node, error) {
	s := &ir.Node{Type: ir.ArrayType}
	first := p.i
	end := first
	for {
		dash := p.i
		p.i++
		v, err := p.value(col, dash, false)
		if err != nil {
			return nil, err
		}
		if err := p.expectLineEnd(false); err != nil {
			return nil, err
		}
		appendItem(s, v)
		end = max(v.Origin().End, dash+1)
		save := p.i
		if _, err := p.skipTrivia(false); err != nil {
			return nil, err
		}
		if p.i >= p.end || p.col(p.i) < col {
			p.i = save
			break
		}
		if p.col(p.i) > col {
			return nil, p.errAt(p.i, "bad indentation of a sequence entry")
		}
		if !p.seqIndicator(p.i) {
			p.i = save
			break
		}
	}
	p.finish(s, first, end, entry, pr)
	s.Span.Col = col
	s.Span.Block = true
	return s, nil
}

func (p *parser) alias(entry int) (*ir.Node, error) {
	start := p.i
	j := start + 1
	for j < p.end && !p.sepAt(j) && !isFlowIndicator(p.src[j]) {
		j++
	}
	if j == start+1 {
		return nil, p.errAt(start, "empty alias name")
	}
	n := ir.FromAlias(string(p.src[start+1 : j]))
	p.i = j
	return p.finish(n, start, j, entry, nil), nil
}
