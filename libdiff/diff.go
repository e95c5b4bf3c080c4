package libdiff

import (
	"github.com/signadot/yedit/ir"
)

// Change is a difference between two trees. Removed and Changed
// changes are located by the path of From, Added changes by the path of
// To.
type Change struct {
	Kind Kind
	From *ir.Node
	To   *ir.Node
}

// Path returns the location of the change.
func (c *Change) Path() string {
	if c.Kind == Added {
		return c.To.Path()
	}
	return c.From.Path()
}

// DiffFunc compares two nodes at the same place and appends their
// differences to dst.
type DiffFunc func(dst []Change, from, to *ir.Node) []Change

// Differ compares trees. Aliases are expanded with the resolvers of
// each side when values are compared; an alias is never descended into.
type Differ struct {
	From, To ir.Resolver
}

// Diff lists the differences between from and to in document order.
func Diff(from, to *ir.Node) []Change {
	return (&Differ{}).Diff(from, to)
}

func (d *Differ) Diff(from, to *ir.Node) []Change {
	return d.diff(nil, from, to)
}

func (d *Differ) diff(dst []Change, from, to *ir.Node) []Change {
	if from.Type != to.Type || from.Tag != to.Tag {
		if ir.Equivalent(from, to, d.From, d.To) {
			return dst
		}
		return append(dst, Change{Kind: Changed, From: from, To: to})
	}
	switch from.Type {
	case ir.ObjectType:
		return d.object(dst, from, to)
	case ir.ArrayType, ir.MultiDocType:
		return d.arrayByIndex(dst, from, to)
	}
	if ir.Equivalent(from, to, d.From, d.To) {
		return dst
	}
	return append(dst, Change{Kind: Changed, From: from, To: to})
}

func (d *Differ) object(dst []Change, from, to *ir.Node) []Change {
	for i, k := range from.Fields {
		j := to.KeyIndex(k.String)
		if j < 0 {
			dst = append(dst, Change{Kind: Removed, From: from.Values[i]})
			continue
		}
		dst = d.diff(dst, from.Values[i], to.Values[j])
	}
	for j, k := range to.Fields {
		if from.KeyIndex(k.String) < 0 {
			dst = append(dst, Change{Kind: Added, To: to.Values[j]})
		}
	}
	return dst
}
