package doc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/ir"
)

var ErrEditConstraint = errors.New("edit constraint violation")

// member checks that n belongs to the document and is a value.
func (d *Document) member(n *ir.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrEditConstraint)
	}
	if n.Root() != d.Root {
		return fmt.Errorf("%w: node is not part of the document", ErrEditConstraint)
	}
	if n.IsKey() {
		return fmt.Errorf("%w: %s is a key, use RenameKey", ErrEditConstraint, n.Path())
	}
	if n.Type == ir.MultiDocType {
		return fmt.Errorf("%w: the document stream cannot be edited as a value", ErrEditConstraint)
	}
	return nil
}

// checkTree rejects MultiDoc nodes below the root.
func checkTree(n *ir.Node, root bool) error {
	var err error
	_ = n.Visit(func(x *ir.Node, isPost bool) (bool, error) {
		if isPost || err != nil {
			return false, nil
		}
		if x.Type == ir.MultiDocType && (x != n || !root) {
			err = fmt.Errorf("%w: documents cannot be nested", ErrEditConstraint)
		}
		return err == nil, nil
	})
	return err
}

// checkAnchors verifies that the anchors of v can be added to the
// document of at, ignoring definitions within gone, and that no alias
// of v would refer to a node containing it.
func (d *Document) checkAnchors(v, at, gone *ir.Node) error {
	scope := anchor.Scope(at)
	removed := func(def *ir.Node) bool {
		return gone != nil && def != gone && gone.Contains(def)
	}
	seen := map[string]bool{}
	var err error
	v.Walk(func(x *ir.Node) {
		if err != nil {
			return
		}
		if x.Anchor != "" {
			if seen[x.Anchor] {
				err = fmt.Errorf("%w: duplicate anchor &%s", anchor.ErrIntegrity, x.Anchor)
				return
			}
			seen[x.Anchor] = true
			if def := d.Anchors.ResolveIn(scope, x.Anchor); def != nil && !removed(def) && def != at {
				err = fmt.Errorf("%w: duplicate anchor &%s, defined at %s", anchor.ErrIntegrity, x.Anchor, def.Path())
				return
			}
		}
		if x.Type != ir.AliasType {
			return
		}
		for p := x.Parent; p != nil; p = p.Parent {
			if p.Anchor == x.Alias {
				err = fmt.Errorf("%w: alias *%s inside its own anchor", ErrEditConstraint, x.Alias)
				return
			}
		}
		if seen[x.Alias] {
			return
		}
		if def := d.Anchors.ResolveIn(scope, x.Alias); def != nil && def.Contains(at) && !removed(def) {
			err = fmt.Errorf("%w: alias *%s inside its own anchor", ErrEditConstraint, x.Alias)
		}
	})
	return err
}

// blocking returns an alias outside n referring to an anchor defined
// strictly below n.
func (d *Document) blocking(n *ir.Node) *ir.Node {
	for _, c := range n.Values {
		if a := d.Anchors.Blocking(c); a != nil && !n.Contains(a) {
			return a
		}
	}
	return nil
}

// discard removes the comments and anchors of n and its descendants.
// Comments which came from the source are recorded as dropped so their
// text goes away with the nodes.
func (d *Document) discard(n *ir.Node) {
	n.Walk(func(x *ir.Node) {
		d.Comments.Detach(x)
		if m := d.Comments.Marker(x); m != nil {
			d.Comments.Detach(m)
		}
	})
	d.Comments.Forget(n)
	d.Anchors.Forget(n)
}

// SetValue replaces the value of n by a copy of v. The node keeps its
// place, its comments and its anchor unless v has one; its tag is kept
// if v has none and the type does not change. Aliases cannot be set.
func (d *Document) SetValue(n, v *ir.Node) error {
	if err := d.member(n); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrEditConstraint)
	}
	if n.Type == ir.AliasType {
		return fmt.Errorf("%w: alias *%s at %s is read-only", ErrEditConstraint, n.Alias, n.Path())
	}
	if err := checkTree(v, false); err != nil {
		return err
	}
	c := v.Clone()
	if c.Anchor != "" && n.Anchor != "" && c.Anchor != n.Anchor && d.Anchors.RefCountOf(n) > 0 {
		return fmt.Errorf("%w: &%s at %s is referenced", anchor.ErrIntegrity, n.Anchor, n.Path())
	}
	if a := d.blocking(n); a != nil {
		return fmt.Errorf("%w: &%s below %s is referenced by %s", anchor.ErrIntegrity, a.Alias, n.Path(), a.Path())
	}
	if err := d.checkAnchors(c, n, n); err != nil {
		return err
	}

	for _, x := range n.Values {
		d.discard(x)
	}
	oldType := n.Type
	anchorName, tag := n.Anchor, n.Tag
	if c.Anchor != "" {
		anchorName = c.Anchor
	}
	if c.Tag != "" {
		tag = c.Tag
	} else if c.Type != oldType {
		tag = ""
	}
	d.Anchors.Forget(n)
	n.Type = c.Type
	n.Fields = c.Fields
	n.Values = c.Values
	n.Alias = c.Alias
	n.String = c.String
	n.Style = c.Style
	n.Quote = c.Quote
	n.Bool = c.Bool
	n.Number = c.Number
	n.Int64 = c.Int64
	n.Float64 = c.Float64
	n.Flow = c.Flow
	n.Anchor = anchorName
	n.Tag = tag
	n.Reindex()
	n.SetModified()
	if err := d.Anchors.Register(n); err != nil {
		// checkAnchors makes this unreachable
		return err
	}
	if debug.Edit() {
		debug.Logf("set %s\n", n.Path())
	}
	return nil
}

// SetString sets the text of a string node keeping its style. A literal
// or folded string keeps its chomping: the text gets the final line
// break the old text had, if any. Other nodes become plain strings.
func (d *Document) SetString(n *ir.Node, s string) error {
	if err := d.member(n); err != nil {
		return err
	}
	if n.Type != ir.StringType {
		return d.SetValue(n, ir.FromString(s))
	}
	v := ir.FromStyledString(s, n.Style)
	v.Quote = n.Quote
	if n.Style != ir.Plain {
		v.String = chomp(n.String, s)
	}
	return d.SetValue(n, v)
}

// chomp gives s the trailing line breaks implied by the chomping of
// old: none when old had none, one when it had one and all of them
// otherwise.
func chomp(old, s string) string {
	switch {
	case !strings.HasSuffix(old, "\n"):
		return strings.TrimRight(s, "\n")
	case !strings.HasSuffix(old, "\n\n"):
		if s == "" {
			return s
		}
		return strings.TrimRight(s, "\n") + "\n"
	}
	return s
}

// InsertChild inserts a copy of v into parent at k and returns the copy.
func (d *Document) InsertChild(parent *ir.Node, k Key, v *ir.Node) (*ir.Node, error) {
	if err := d.member(parent); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrEditConstraint)
	}
	switch parent.Type {
	case ir.ObjectType:
		if !k.named {
			return nil, fmt.Errorf("%w: mapping %s needs a key", ErrEditConstraint, parent.Path())
		}
		if parent.KeyIndex(k.Name) >= 0 {
			return nil, fmt.Errorf("%w: key %q exists in %s", ErrEditConstraint, k.Name, parent.Path())
		}
	case ir.ArrayType:
		if k.named {
			return nil, fmt.Errorf("%w: sequence %s takes an index, not key %q", ErrEditConstraint, parent.Path(), k.Name)
		}
	default:
		return nil, fmt.Errorf("%w: cannot insert into %s at %s", ErrEditConstraint, parent.Type, parent.Path())
	}
	i := k.Index
	if i < 0 {
		i = len(parent.Values)
	}
	if i > len(parent.Values) {
		return nil, fmt.Errorf("%w: index %d out of range at %s", ErrEditConstraint, i, parent.Path())
	}
	if err := checkTree(v, false); err != nil {
		return nil, err
	}
	c := v.Clone()
	if err := d.checkAnchors(c, parent, nil); err != nil {
		return nil, err
	}

	parent.Values = insertAt(parent.Values, i, c)
	if parent.Type == ir.ObjectType {
		parent.Fields = insertAt(parent.Fields, i, ir.FromString(k.Name))
	}
	parent.Reindex()
	parent.SetRestructured()
	if err := d.Anchors.Register(c); err != nil {
		return nil, err
	}
	if debug.Edit() {
		debug.Logf("insert %s\n", c.Path())
	}
	return c, nil
}

func insertAt(ns []*ir.Node, i int, n *ir.Node) []*ir.Node {
	ns = append(ns, nil)
	copy(ns[i+1:], ns[i:])
	ns[i] = n
	return ns
}

// Delete removes n from its parent. A node defining an anchor that is
// referenced from outside it cannot be deleted. A document of a stream
// of several documents may be deleted, the last one may not.
func (d *Document) Delete(n *ir.Node) error {
	if err := d.member(n); err != nil {
		return err
	}
	p := n.Parent
	if p == nil {
		return fmt.Errorf("%w: cannot delete the document root", ErrEditConstraint)
	}
	if a := d.Anchors.Blocking(n); a != nil {
		return fmt.Errorf("%w: *%s at %s refers into %s", anchor.ErrIntegrity, a.Alias, a.Path(), n.Path())
	}
	path := n.Path()
	d.discard(n)
	i := n.ParentIndex
	p.Values = append(p.Values[:i:i], p.Values[i+1:]...)
	if p.Type == ir.ObjectType {
		p.Fields = append(p.Fields[:i:i], p.Fields[i+1:]...)
	}
	p.Reindex()
	n.Parent = nil
	if p.Type == ir.MultiDocType {
		if len(p.Values) == 1 {
			d.Root = p.Values[0]
			d.Root.Parent = nil
		}
	} else {
		p.SetRestructured()
	}
	if debug.Edit() {
		debug.Logf("delete %s\n", path)
	}
	return nil
}

// RenameKey renames key old of the mapping parent to new.
func (d *Document) RenameKey(parent *ir.Node, old, new string) error {
	if err := d.member(parent); err != nil {
		return err
	}
	if parent.Type != ir.ObjectType {
		return fmt.Errorf("%w: %s is not a mapping", ErrEditConstraint, parent.Path())
	}
	i := parent.KeyIndex(old)
	if i < 0 {
		return fmt.Errorf("%w: no key %q in %s", ErrEditConstraint, old, parent.Path())
	}
	if old == new {
		return nil
	}
	if parent.KeyIndex(new) >= 0 {
		return fmt.Errorf("%w: key %q exists in %s", ErrEditConstraint, new, parent.Path())
	}
	k := parent.Fields[i]
	k.String = new
	k.ParentField = new
	parent.Values[i].ParentField = new
	k.SetModified()
	if debug.Edit() {
		debug.Logf("rename %s -> %q\n", parent.Values[i].Path(), new)
	}
	return nil
}

// InsertDocument adds a copy of root as document i of the stream and
// returns the copy.
func (d *Document) InsertDocument(i int, root *ir.Node) (*ir.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil document", ErrEditConstraint)
	}
	docs := d.Docs()
	if i < 0 || i > len(docs) {
		return nil, fmt.Errorf("%w: document index %d out of range", ErrEditConstraint, i)
	}
	if err := checkTree(root, false); err != nil {
		return nil, err
	}
	c := root.Clone()
	seen := map[string]bool{}
	var err error
	c.Walk(func(x *ir.Node) {
		if x.Anchor != "" {
			if seen[x.Anchor] && err == nil {
				err = fmt.Errorf("%w: duplicate anchor &%s", anchor.ErrIntegrity, x.Anchor)
			}
			seen[x.Anchor] = true
		}
	})
	if err != nil {
		return nil, err
	}
	if d.Root.Type != ir.MultiDocType {
		d.Root = ir.FromDocs([]*ir.Node{d.Root})
	}
	d.Root.Values = insertAt(d.Root.Values, i, c)
	d.Root.Reindex()
	if err := d.Anchors.Register(c); err != nil {
		return nil, err
	}
	if debug.Edit() {
		debug.Logf("insert document %d\n", i)
	}
	return c, nil
}
