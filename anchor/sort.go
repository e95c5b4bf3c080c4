package anchor

import (
	"sort"

	"github.com/signadot/yedit/ir"
)

// sortByOffset orders nodes by document position. Nodes without a
// position keep their relative order after positioned ones.
func sortByOffset(nodes []*ir.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		oi, oj := nodes[i].Origin(), nodes[j].Origin()
		switch {
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return oi.Start < oj.Start
		}
	})
}
