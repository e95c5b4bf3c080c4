// Package encode writes YAML text for IR nodes.
//
// Encode renders whole documents. Fragment, Entry and Item render pieces
// of text meant to be spliced into an existing source at a known column;
// they never emit document markers and never end with a line break.
//
// # Usage
//
//	node := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: "name", Val: ir.FromString("alice")},
//	    {Key: "tags", Val: ir.FromSlice([]*ir.Node{ir.FromString("a")})},
//	})
//	var buf bytes.Buffer
//	err := encode.Encode(node, &buf, encode.Indent(4))
//
// # Related Packages
//
//   - github.com/signadot/yedit/ir - node representation
//   - github.com/signadot/yedit/splice - format preserving output
package encode
