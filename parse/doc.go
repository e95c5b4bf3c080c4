// Package parse parses YAML text into a tree of ir nodes which remember
// where they came from.
//
// # Usage
//
//	res, err := parse.Parse(data, parse.WithFilename("values.yaml"))
//	if err != nil {
//	    return err
//	}
//	// res.Root is the tree, res.Anchors the anchor registry and
//	// res.Comments the comments keyed by node.
//
// Every node carries an ir.Span into res.Source so that unchanged parts
// of a document can be written back byte for byte. Streams with several
// documents parse to a MultiDocType root.
//
// # Related Packages
//
//   - github.com/signadot/yedit/ir - Node representation
//   - github.com/signadot/yedit/token - Scalar lexing and positions
//   - github.com/signadot/yedit/multidoc - Document layout of streams
package parse
