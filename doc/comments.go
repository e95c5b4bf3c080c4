package doc

import (
	"bytes"
	"fmt"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/ir"
)

// EndOf returns the end-of-block marker of a block collection, the
// target for comments after its last entry.
func (d *Document) EndOf(container *ir.Node) (*ir.Node, error) {
	if err := d.member(container); err != nil {
		return nil, err
	}
	if !container.Type.IsContainer() || container.Flow || len(container.Values) == 0 {
		return nil, fmt.Errorf("%w: %s is not a block collection", ErrEditConstraint, container.Path())
	}
	return d.Comments.End(container), nil
}

// commentTarget resolves the node a comment on n attaches to. Keys
// carry no comments of their own; theirs go to the value.
func (d *Document) commentTarget(n *ir.Node) (*ir.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrEditConstraint)
	}
	if _, ok := d.Comments.IsEnd(n); ok {
		if n.Root() != d.Root {
			return nil, fmt.Errorf("%w: node is not part of the document", ErrEditConstraint)
		}
		return n, nil
	}
	if n.IsKey() {
		n = n.Parent.Values[n.ParentIndex]
	}
	if err := d.member(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AttachComment adds a comment at pos relative to target. A Line
// comment replaces the existing one.
func (d *Document) AttachComment(target *ir.Node, pos comment.Position, text string) (*comment.Comment, error) {
	t, err := d.commentTarget(target)
	if err != nil {
		return nil, err
	}
	if err := d.checkComment(t, pos); err != nil {
		return nil, err
	}
	if _, err := comment.Normalize(text); err != nil {
		return nil, err
	}
	if pos == comment.Line {
		d.Comments.DetachAt(t, comment.Line)
	}
	c, err := d.Comments.Attach(t, pos, text)
	if err != nil {
		return nil, err
	}
	if debug.Edit() {
		debug.Logf("comment %s %s %q\n", t.Path(), pos, c.Text)
	}
	return c, nil
}

func (d *Document) checkComment(t *ir.Node, pos comment.Position) error {
	if cont, ok := d.Comments.IsEnd(t); ok {
		if pos == comment.Above || pos == comment.Line {
			return fmt.Errorf("%w: %s comment needs a node, not an end of block", ErrEditConstraint, pos)
		}
		if cont.Flow {
			return fmt.Errorf("%w: flow collection %s has no end of block", ErrEditConstraint, cont.Path())
		}
		return nil
	}
	for p := t.Parent; p != nil; p = p.Parent {
		if p.Flow {
			return fmt.Errorf("%w: %s is inside a flow collection", ErrEditConstraint, t.Path())
		}
	}
	if pos != comment.Line {
		return nil
	}
	if t.Parent == nil || t.Parent.Type == ir.MultiDocType {
		if t.Type.IsContainer() && !t.Flow && len(t.Values) > 0 {
			return fmt.Errorf("%w: a block collection document has no line of its own", ErrEditConstraint)
		}
	}
	if t.Modified {
		return nil
	}
	if o := t.Origin(); o != nil && o.Block && !bytes.ContainsRune(d.Source[o.Entry:o.Body], '\n') {
		return fmt.Errorf("%w: block collection %s starts on its entry line", ErrEditConstraint, t.Path())
	}
	return nil
}

// DetachComment removes the comments of target at pos and returns them.
func (d *Document) DetachComment(target *ir.Node, pos comment.Position) ([]*comment.Comment, error) {
	t, err := d.commentTarget(target)
	if err != nil {
		return nil, err
	}
	res := d.Comments.DetachAt(t, pos)
	if debug.Edit() {
		debug.Logf("uncomment %s %s (%d)\n", t.Path(), pos, len(res))
	}
	return res, nil
}

// CommentsOf returns the comments of target in order.
func (d *Document) CommentsOf(target *ir.Node) []*comment.Comment {
	return d.Comments.For(target)
}
