package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

// resolvePlain types the text of a plain scalar.
func resolvePlain(text, tag string) *ir.Node {
	switch tag {
	case "!", "!!str", "!<tag:yaml.org,2002:str>":
		return ir.FromString(text)
	}
	r := token.Resolve(text)
	switch r.Kind {
	case token.KindNull:
		return ir.Null()
	case token.KindBool:
		return ir.FromBool(r.Bool)
	case token.KindInt:
		n := ir.FromInt(r.Int)
		n.Number = text
		return n
	case token.KindFloat:
		n := ir.FromFloat(r.Float)
		n.Number = text
		return n
	default:
		return ir.FromString(text)
	}
}

// plain parses a plain scalar, which may continue on following lines
// indented more than indent. In flow context indentation is not
// checked.
func (p *parser) plain(indent, entry int, pr *props, flow bool) (*ir.Node, error) {
	start := p.i
	switch c := p.at(start); c {
	case 0, '\n':
		return nil, p.errAt(start, "expected a value")
	case ',', '[', ']', '{', '}', '#', '%', '@', '`', '|', '>', '&', '!', '*':
		return nil, p.errAt(start, "unexpected %q", c)
	case '-', '?', ':':
		if p.sepAt(start+1) || flow && isFlowIndicator(p.at(start+1)) {
			return nil, p.errAt(start, "unexpected %q", c)
		}
	}
	e, _, _ := p.scanPlain(start, flow)
	if e == start {
		return nil, p.errAt(start, "unexpected %q", p.at(start))
	}
	var sb strings.Builder
	sb.Write(p.src[start:e])
	last := e
	for {
		j := last
		for isBlank(p.at(j)) {
			j++
		}
		if p.at(j) != '\n' {
			break
		}
		breaks := 0
		k := j
		var m int
		for {
			m = k + 1
			for isBlank(p.at(m)) {
				m++
			}
			if p.at(m) != '\n' {
				break
			}
			breaks++
			k = m
		}
		if m >= p.end {
			break
		}
		if !flow && p.col(m) <= indent {
			break
		}
		c := p.src[m]
		if c == '#' || flow && (isFlowIndicator(c) || c == ':') {
			break
		}
		le, colon, _ := p.scanPlain(m, flow)
		if colon || le == m {
			break
		}
		if breaks == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(strings.Repeat("\n", breaks))
		}
		sb.Write(p.src[m:le])
		last = le
	}
	p.i = last
	tag := ""
	if pr != nil {
		tag = pr.tag
	}
	return p.finish(resolvePlain(sb.String(), tag), start, last, entry, pr), nil
}

func (p *parser) quoted(entry int, pr *props) (*ir.Node, error) {
	start := p.i
	v, n, err := token.DecodeQuoted(p.src[start:p.end])
	if err != nil {
		return nil, p.errWrap(start, fmt.Errorf("%w: %w", ErrParse, err))
	}
	node := ir.FromString(v)
	node.Quote = p.src[start]
	p.i = start + n
	return p.finish(node, start, p.i, entry, pr), nil
}

// blockScalar parses a literal or folded scalar. Its span covers the
// header and ends with the last content line; with keep chomping the
// trailing blank lines are included.
func (p *parser) blockScalar(indent, entry int, pr *props) (*ir.Node, error) {
	body := p.i
	h, n, err := token.ParseBlockHeader(p.src[p.i:p.end])
	if err != nil {
		return nil, p.errWrap(p.i, fmt.Errorf("%w: %w", ErrParse, err))
	}
	p.i += n
	headerEnd := p.i
	p.skipSpace()
	if p.at(p.i) == '#' {
		p.comment(p.i)
		p.i = p.eol(p.i)
	}
	if p.i < p.end && p.src[p.i] != '\n' {
		return nil, p.errAt(p.i, "unexpected content after block scalar header")
	}
	ci := -1
	if h.Indent > 0 {
		ci = max(indent, 0) + h.Indent
	}
	var lines []token.BlockLine
	end := headerEnd
	keepEnd := -1
	pos := p.i
	for pos < p.end {
		ls := pos + 1
		if ls >= p.end {
			break
		}
		le := p.eol(ls)
		line := bytes.TrimSuffix(p.src[ls:le], []byte("\r"))
		sp := 0
		for sp < len(line) && line[sp] == ' ' {
			sp++
		}
		allSpaces := sp == len(line)
		if ci < 0 && !allSpaces {
			if sp <= indent {
				break
			}
			ci = sp
		}
		if allSpaces && (ci < 0 || sp <= ci) {
			lines = append(lines, token.BlockLine{Blank: true, Break: le < p.end})
			if le < p.end {
				keepEnd = ls + len(line)
			}
			pos = le
			continue
		}
		if sp < ci {
			break
		}
		lines = append(lines, token.BlockLine{Text: string(line[ci:]), Break: le < p.end})
		end = ls + len(line)
		keepEnd = -1
		pos = le
	}
	style := ir.Literal
	if h.Folded {
		style = ir.Folded
	}
	node := ir.FromStyledString(token.BlockValue(lines, h.Folded, h.Chomp), style)
	if h.Chomp == token.Keep && keepEnd > end {
		end = keepEnd
	}
	p.i = end
	return p.finish(node, body, end, entry, pr), nil
}
