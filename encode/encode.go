package encode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

var ErrEncode = errors.New("encode error")

// alias expansion stops at this depth and writes null instead.
const maxAliasDepth = 64

// Context places a piece of text within the surrounding source.
type Context struct {
	// Parent is the entry column of the enclosing block collection, or
	// -1 at the document root.
	Parent int
	// Col is the column at which the text starts.
	Col int
	// Compact allows a block collection to start at Col, as after "- "
	// or alone on a line. Otherwise its entries go on the following
	// lines, indented from Parent.
	Compact bool
	// Flow is set inside a flow collection.
	Flow bool
}

// DocContext is the context of a document root.
var DocContext = Context{Parent: -1, Compact: true}

type EncState struct {
	buf strings.Builder

	indent      int
	comments    *comment.Store
	filter      func(*comment.Comment) bool
	resolve     ir.Resolver
	dropAnchors bool
	rootLine    bool

	// >0 while writing an alias expansion
	expanding int

	Color func(ir.Type, ColorAttr, string) string
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// sub returns an empty state with the same settings.
func (es *EncState) sub() *EncState {
	return &EncState{
		indent:      es.indent,
		comments:    es.comments,
		filter:      es.filter,
		resolve:     es.resolve,
		dropAnchors: es.dropAnchors,
		expanding:   es.expanding,
		Color:       es.Color,
	}
}

// Encode writes node as a YAML stream. Every document ends with a line
// break; documents after the first are introduced by "---".
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newState(opts)
	if node.Type == ir.MultiDocType {
		for i, d := range node.Values {
			if i > 0 {
				es.write("---\n")
			}
			if err := es.document(d); err != nil {
				return err
			}
		}
	} else if err := es.document(node); err != nil {
		return err
	}
	_, err := io.WriteString(w, es.buf.String())
	return err
}

func (es *EncState) document(n *ir.Node) error {
	for _, c := range es.commentsAt(n, comment.Above) {
		es.comment(n, c)
		es.write("\n")
	}
	if err := es.value(n, DocContext, false); err != nil {
		return err
	}
	es.trailing(n, 0)
	es.write("\n")
	return nil
}

// Fragment renders n to replace a value in place. Comments around n are
// left to the caller; only a comment on a block scalar header is written
// unless FragmentLineComments is given.
func Fragment(n *ir.Node, ctx Context, opts ...EncodeOption) (string, error) {
	es := newState(opts)
	if err := es.value(n, ctx, !es.rootLine); err != nil {
		return "", err
	}
	return es.buf.String(), nil
}

// Entry renders a block mapping entry whose key starts at column col,
// including the comments attached to v. The text continues lines at col.
func Entry(key, v *ir.Node, col int, opts ...EncodeOption) (string, error) {
	es := newState(opts)
	es.above(v, col)
	if err := es.entry(key, v, col); err != nil {
		return "", err
	}
	es.trailing(v, col)
	return es.buf.String(), nil
}

// Item renders a block sequence item whose '-' is at column col.
func Item(v *ir.Node, col int, opts ...EncodeOption) (string, error) {
	es := newState(opts)
	es.above(v, col)
	if err := es.item(v, col); err != nil {
		return "", err
	}
	es.trailing(v, col)
	return es.buf.String(), nil
}

// FlowEntry renders "key: value" for a flow mapping.
func FlowEntry(key, v *ir.Node, opts ...EncodeOption) (string, error) {
	es := newState(opts)
	es.key(key, true)
	es.sep(ir.ObjectType, ":")
	es.write(" ")
	if err := es.value(v, Context{Flow: true}, true); err != nil {
		return "", err
	}
	return es.buf.String(), nil
}

// FlowItem renders an item of a flow sequence.
func FlowItem(v *ir.Node, opts ...EncodeOption) (string, error) {
	return Fragment(v, Context{Flow: true}, opts...)
}

// KeyText is the text of a mapping key. An unchanged parsed key written
// plain stays plain.
func KeyText(k *ir.Node, flow bool) string {
	if k.Quote == 0 && k.Origin() != nil && !k.Modified && !strings.Contains(k.String, "\n") {
		if !flow || !token.NeedsQuoteFlow(k.String) {
			return k.String
		}
	}
	return stringText(k.String, k.Quote, flow)
}

func stringText(v string, quote byte, flow bool) string {
	switch quote {
	case '\'':
		if s, ok := token.SingleQuote(v); ok {
			return s
		}
		return token.Quote(v)
	case '"':
		return token.Quote(v)
	}
	if flow && token.NeedsQuoteFlow(v) || !flow && token.NeedsQuote(v) {
		return token.Quote(v)
	}
	return v
}

func (es *EncState) write(s string) {
	es.buf.WriteString(s)
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func (es *EncState) nl(col int) {
	es.buf.WriteByte('\n')
	es.write(strings.Repeat(" ", col))
}

func (es *EncState) sep(t ir.Type, s string) {
	es.write(es.color(t, SepColor, s))
}

func (es *EncState) key(k *ir.Node, flow bool) int {
	s := KeyText(k, flow)
	es.write(es.color(k.Type, FieldColor, s))
	return len(s)
}

func (es *EncState) childIndent(parent int) int {
	if parent < 0 {
		return 0
	}
	return parent + es.indent
}

func (es *EncState) commentsAt(n *ir.Node, pos comment.Position) []*comment.Comment {
	if es.comments == nil || es.expanding > 0 || n == nil {
		return nil
	}
	var res []*comment.Comment
	for _, c := range es.comments.At(n, pos) {
		if es.filter == nil || es.filter(c) {
			res = append(res, c)
		}
	}
	return res
}

func (es *EncState) comment(n *ir.Node, c *comment.Comment) {
	es.write(es.color(n.Type, CommentColor, c.Text))
}

func (es *EncState) above(v *ir.Node, col int) {
	for _, c := range es.commentsAt(v, comment.Above) {
		es.comment(v, c)
		es.nl(col)
	}
}

func (es *EncState) lineComments(n *ir.Node, root bool) {
	if root {
		return
	}
	for _, c := range es.commentsAt(n, comment.Line) {
		es.write(" ")
		es.comment(n, c)
	}
}

// trailing writes the comments below v, at column col.
func (es *EncState) trailing(v *ir.Node, col int) {
	if es.comments == nil || es.expanding > 0 {
		return
	}
	for _, c := range es.comments.For(v) {
		if es.filter != nil && !es.filter(c) {
			continue
		}
		switch c.Position {
		case comment.Below:
		case comment.Standalone:
			es.write("\n")
		default:
			continue
		}
		es.nl(col)
		es.comment(v, c)
	}
}

func (es *EncState) props(n *ir.Node) string {
	var parts []string
	if n.Anchor != "" && !es.dropAnchors && es.expanding == 0 {
		parts = append(parts, es.color(n.Type, AnchorColor, "&"+n.Anchor))
	}
	if n.Tag != "" {
		parts = append(parts, es.color(n.Type, TagColor, n.Tag))
	}
	return strings.Join(parts, " ")
}

func (es *EncState) withProps(props string) {
	if props != "" {
		es.write(props)
		es.write(" ")
	}
}

// value writes n starting at ctx.Col. The root of a fragment only gets
// its block scalar header comment.
func (es *EncState) value(n *ir.Node, ctx Context, root bool) error {
	if n.Type == ir.AliasType {
		return es.alias(n, ctx, root)
	}
	props := es.props(n)
	switch n.Type {
	case ir.ObjectType, ir.ArrayType:
		if len(n.Values) == 0 || n.Flow || ctx.Flow {
			es.withProps(props)
			if err := es.flow(n); err != nil {
				return err
			}
			es.lineComments(n, root)
			return nil
		}
		var line []*comment.Comment
		if !root {
			line = es.commentsAt(n, comment.Line)
		}
		col := ctx.Col
		if !ctx.Compact || props != "" || len(line) > 0 {
			es.write(props)
			for i, c := range line {
				if i > 0 || props != "" {
					es.write(" ")
				}
				es.comment(n, c)
			}
			col = es.childIndent(ctx.Parent)
			es.nl(col)
		}
		return es.block(n, col)
	case ir.StringType:
		if n.Style != ir.Plain && !ctx.Flow {
			h, lines, ok := token.BlockLines(n.String, n.Style == ir.Folded, es.indent)
			if ok {
				es.withProps(props)
				es.write(es.color(n.Type, LiteralMultiColor, h.String()))
				es.lineComments(n, false)
				ci := max(ctx.Parent, 0) + es.indent
				for _, ln := range lines {
					es.write("\n")
					if ln != "" {
						es.write(strings.Repeat(" ", ci))
						es.write(es.color(n.Type, LiteralMultiColor, ln))
					}
				}
				return nil
			}
		}
		es.withProps(props)
		attr := ValueColor
		if n.Quote != 0 {
			attr = LiteralSingleColor
		}
		es.write(es.color(n.Type, attr, stringText(n.String, n.Quote, ctx.Flow)))
	case ir.NullType:
		es.withProps(props)
		es.write(es.color(n.Type, ValueColor, "null"))
	case ir.BoolType:
		es.withProps(props)
		s := "false"
		if n.Bool {
			s = "true"
		}
		es.write(es.color(n.Type, ValueColor, s))
	case ir.NumberType:
		es.withProps(props)
		es.write(es.color(n.Type, ValueColor, n.NumberText()))
	default:
		return fmt.Errorf("%w: cannot write %s node at %s", ErrEncode, n.Type, n.Path())
	}
	es.lineComments(n, root)
	return nil
}

func (es *EncState) alias(n *ir.Node, ctx Context, root bool) error {
	if es.resolve != nil {
		if t := es.resolve(n); t != nil {
			if es.expanding >= maxAliasDepth {
				es.write(es.color(ir.NullType, ValueColor, "null"))
				return nil
			}
			es.expanding++
			err := es.value(t, ctx, true)
			es.expanding--
			if err != nil {
				return err
			}
			if t.Type.IsLeaf() && t.Style == ir.Plain || !t.Type.IsLeaf() && (t.Flow || len(t.Values) == 0) {
				es.lineComments(n, root)
			}
			return nil
		}
	}
	es.write(es.color(n.Type, ValueColor, "*"+n.Alias))
	es.lineComments(n, root)
	return nil
}

func (es *EncState) flow(n *ir.Node) error {
	open, shut := "[", "]"
	if n.Type == ir.ObjectType {
		open, shut = "{", "}"
	}
	es.sep(n.Type, open)
	for i, v := range n.Values {
		if i > 0 {
			es.sep(n.Type, ",")
			es.write(" ")
		}
		if n.Type == ir.ObjectType {
			es.key(n.Fields[i], true)
			es.sep(n.Type, ":")
			es.write(" ")
		}
		if err := es.value(v, Context{Flow: true}, true); err != nil {
			return err
		}
	}
	es.sep(n.Type, shut)
	return nil
}

// block writes the entries of a non-empty block collection at col,
// assuming the output is already at col.
func (es *EncState) block(n *ir.Node, col int) error {
	for i, v := range n.Values {
		if i > 0 {
			es.nl(col)
		}
		es.above(v, col)
		var err error
		if n.Type == ir.ObjectType {
			err = es.entry(n.Fields[i], v, col)
		} else {
			err = es.item(v, col)
		}
		if err != nil {
			return err
		}
		es.trailing(v, col)
	}
	if es.comments != nil {
		if m := es.comments.Marker(n); m != nil {
			es.trailing(m, col)
		}
	}
	return nil
}

func (es *EncState) entry(k, v *ir.Node, col int) error {
	w := es.key(k, false)
	es.sep(ir.ObjectType, ":")
	return es.child(v, Context{Parent: col, Col: col + w + 2})
}

func (es *EncState) item(v *ir.Node, col int) error {
	es.sep(ir.ArrayType, "-")
	return es.child(v, Context{Parent: col, Col: col + 2, Compact: true})
}

// child writes the value after an indicator, separated by a space unless
// it starts on the next line.
func (es *EncState) child(v *ir.Node, ctx Context) error {
	sub := es.sub()
	if err := sub.value(v, ctx, false); err != nil {
		return err
	}
	s := sub.buf.String()
	if !strings.HasPrefix(s, "\n") {
		es.write(" ")
	}
	es.write(s)
	return nil
}
