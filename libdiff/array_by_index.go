package libdiff

import (
	"strconv"
	"strings"

	"github.com/signadot/yedit/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// arrayByIndex compares sequences item by item:
//
//  1. each item is summarized as <type>-<value> for scalars, and as its
//     type alone for collections and multi-line strings
//  2. the sequences of summaries are diffed, one rune per summary
//  3. items with equal summaries are compared recursively
//  4. a run of deletions followed by insertions pairs up as changes,
//     the rest are removals and additions
func (d *Differ) arrayByIndex(dst []Change, from, to *ir.Node) []Change {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	fi, ti := 0, 0
	var dels []*ir.Node
	flush := func() {
		for _, x := range dels {
			dst = append(dst, Change{Kind: Removed, From: x})
		}
		dels = nil
	}
	for i := range diffs {
		diff := &diffs[i]
		n := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range n {
				dels = append(dels, from.Values[fi])
				fi++
			}
		case diffpatch.DiffInsert:
			for range n {
				if len(dels) > 0 {
					dst = d.diff(dst, dels[0], to.Values[ti])
					dels = dels[1:]
				} else {
					dst = append(dst, Change{Kind: Added, To: to.Values[ti]})
				}
				ti++
			}
			flush()
		case diffpatch.DiffEqual:
			flush()
			for range n {
				dst = d.diff(dst, from.Values[fi], to.Values[ti])
				fi++
				ti++
			}
		}
	}
	flush()
	return dst
}

func mapValues(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			// skip the surrogate range, which does not survive the
			// string conversions of the diff
			r = rune(len(m))
			if r >= 0xD800 {
				r += 0x800
			}
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(node *ir.Node) string {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType, ir.NullType, ir.MultiDocType:
		return node.Type.String() + node.Tag
	case ir.BoolType:
		return node.Type.String() + "-" + strconv.FormatBool(node.Bool)
	case ir.StringType:
		if strings.Contains(node.String, "\n") {
			return node.Type.String() + "/m"
		}
		return node.Type.String() + "-" + node.String
	case ir.NumberType:
		return node.Type.String() + "-" + node.NumberText()
	case ir.AliasType:
		return node.Type.String() + "-" + node.Alias
	default:
		return node.Type.String()
	}
}
