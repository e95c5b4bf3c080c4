package encode

import (
	"strings"

	"github.com/signadot/yedit/ir"
)

// String encodes node with opts and trims the surrounding whitespace.
// Dangling aliases and unencodable values fall back to a one line
// summary of the node.
func String(node *ir.Node, opts ...EncodeOption) string {
	if node == nil {
		return "<nil>"
	}
	var b strings.Builder
	if err := Encode(node, &b, opts...); err != nil {
		return "<" + node.Type.String() + " " + node.Path() + ": " + err.Error() + ">"
	}
	return strings.TrimSpace(b.String())
}
