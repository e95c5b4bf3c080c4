package encode

import (
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
)

type EncodeOption func(*EncState)

// Indent sets the number of spaces per nesting level. Values outside 1..9
// are ignored.
func Indent(n int) EncodeOption {
	return func(es *EncState) {
		if n >= 1 && n <= 9 {
			es.indent = n
		}
	}
}

// EncodeComments emits the comments of store. When filter is not nil only
// the comments it accepts are written.
func EncodeComments(store *comment.Store, filter func(*comment.Comment) bool) EncodeOption {
	return func(es *EncState) {
		es.comments = store
		es.filter = filter
	}
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c != nil {
			es.Color = c.Color
		}
	}
}

// InlineAliases replaces each alias which resolve maps to a node by a copy
// of that node. Anchors inside the copies are not written.
func InlineAliases(resolve ir.Resolver) EncodeOption {
	return func(es *EncState) { es.resolve = resolve }
}

func DropAnchors(v bool) EncodeOption {
	return func(es *EncState) { es.dropAnchors = v }
}

// FragmentLineComments makes Fragment write the line comments of the
// fragment root as well.
func FragmentLineComments(v bool) EncodeOption {
	return func(es *EncState) { es.rootLine = v }
}
