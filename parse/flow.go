package parse

import (
	"fmt"

	"github.com/signadot/yedit/ir"
)

// flow parses a flow sequence or mapping at p.i. Flow collections may
// span lines.
func (p *parser) flow(entry int, pr *props) (*ir.Node, error) {
	if err := p.enter(p.i); err != nil {
		return nil, err
	}
	defer p.leave()
	open := p.i
	n := &ir.Node{Type: ir.ObjectType, Flow: true}
	closer := byte('}')
	if p.src[open] == '[' {
		n.Type = ir.ArrayType
		closer = ']'
	}
	p.i++
items:
	for {
		if _, err := p.skipTrivia(true); err != nil {
			return nil, err
		}
		if p.i >= p.end {
			return nil, p.errAt(open, "unterminated flow collection")
		}
		if p.src[p.i] == closer {
			p.i++
			break
		}
		if n.Type == ir.ArrayType {
			v, err := p.flowNode(-1)
			if err != nil {
				return nil, err
			}
			if _, err := p.skipTrivia(true); err != nil {
				return nil, err
			}
			if p.at(p.i) == ':' {
				return nil, p.errAt(p.i, "mappings inside flow sequences are not supported")
			}
			appendItem(n, v)
		} else if err := p.flowEntry(n, closer); err != nil {
			return nil, err
		}
		if _, err := p.skipTrivia(true); err != nil {
			return nil, err
		}
		switch p.at(p.i) {
		case ',':
			p.i++
		case closer:
			p.i++
			break items
		case 0:
			return nil, p.errAt(open, "unterminated flow collection")
		default:
			return nil, p.errAt(p.i, "expected ',' or %q", closer)
		}
	}
	return p.finish(n, open, p.i, entry, pr), nil
}

// flowEntry parses one key and optional value of a flow mapping.
func (p *parser) flowEntry(m *ir.Node, closer byte) error {
	k, err := p.keyNode(true)
	if err != nil {
		return err
	}
	if m.KeyIndex(k.String) != -1 {
		return p.errAt(k.Origin().Start, "duplicate mapping key %q", k.String)
	}
	if _, err := p.skipTrivia(true); err != nil {
		return err
	}
	var v *ir.Node
	if p.at(p.i) == ':' {
		p.i++
		after := p.i
		if _, err := p.skipTrivia(true); err != nil {
			return err
		}
		if c := p.at(p.i); c == ',' || c == closer {
			v = p.empty(after, k.Origin().Start, nil)
		} else if v, err = p.flowNode(k.Origin().Start); err != nil {
			return err
		}
	} else {
		v = p.empty(k.Origin().End, k.Origin().Start, nil)
	}
	link(m, k, v)
	return nil
}

// flowNode parses a node inside a flow collection. A negative entry
// makes the node its own entry.
func (p *parser) flowNode(entry int) (*ir.Node, error) {
	start := p.i
	if entry < 0 {
		entry = start
	}
	pr, err := p.props(true)
	if err != nil {
		return nil, err
	}
	if pr != nil {
		if _, err := p.skipTrivia(true); err != nil {
			return nil, err
		}
	}
	switch c := p.at(p.i); {
	case pr != nil && (c == ',' || c == ']' || c == '}' || c == 0):
		return p.empty(pr.end, entry, pr), nil
	case c == '[' || c == '{':
		return p.flow(entry, pr)
	case c == '*':
		if pr != nil {
			return nil, p.errAt(pr.start, "an alias cannot have properties")
		}
		return p.alias(entry)
	case c == '"' || c == '\'':
		return p.quoted(entry, pr)
	case c == '?' && (p.sepAt(p.i+1) || isFlowIndicator(p.at(p.i+1))):
		return nil, p.errWrap(p.i, fmt.Errorf("%w: %w", ErrParse, errComplexKey))
	}
	return p.plain(-1, entry, pr, true)
}
