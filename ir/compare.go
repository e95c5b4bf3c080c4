package ir

import (
	"math"
)

// Resolver maps an alias node to the node it refers to, or nil when the
// alias is dangling.
type Resolver func(alias *Node) *Node

// Equivalent reports whether a and b denote the same data. Aliases are
// expanded with ra and rb; dangling aliases are equal when their names are.
// Anchors, string styles, quoting and number spelling are presentation and
// are ignored. Tags are compared verbatim.
func Equivalent(a, b *Node, ra, rb Resolver) bool {
	c := &comparer{ra: ra, rb: rb}
	return c.eq(a, b)
}

type comparer struct {
	ra, rb Resolver
	depth  int
}

// expanding recursive aliases is cut off at this depth.
const maxAliasDepth = 64

func (c *comparer) eq(a, b *Node) bool {
	if a.Type == AliasType || b.Type == AliasType {
		if c.depth > maxAliasDepth {
			return a.Type == b.Type && a.Alias == b.Alias
		}
		da, db := a, b
		if a.Type == AliasType && c.ra != nil {
			if t := c.ra(a); t != nil {
				da = t
			}
		}
		if b.Type == AliasType && c.rb != nil {
			if t := c.rb(b); t != nil {
				db = t
			}
		}
		if da.Type == AliasType || db.Type == AliasType {
			return da.Type == db.Type && da.Alias == db.Alias
		}
		c.depth++
		defer func() { c.depth-- }()
		return c.eq(da, db)
	}
	if a.Type != b.Type || a.Tag != b.Tag {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case NumberType:
		return numberEq(a, b)
	case StringType:
		return a.String == b.String
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].String != b.Fields[i].String {
				return false
			}
			if !c.eq(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ArrayType, MultiDocType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !c.eq(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numberEq(a, b *Node) bool {
	switch {
	case a.Int64 != nil && b.Int64 != nil:
		return *a.Int64 == *b.Int64
	case a.Float64 != nil && b.Float64 != nil:
		fa, fb := *a.Float64, *b.Float64
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	case a.Int64 == nil && a.Float64 == nil && b.Int64 == nil && b.Float64 == nil:
		return a.Number == b.Number
	}
	return false
}
