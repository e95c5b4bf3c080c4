// Package format provides the formatting configuration shared by the
// serializer and the file collaborators.
//
// # Usage
//
//	cfg := format.NewConfig(format.WithIndent(4))
//	res, err := doc.Serialize(cfg)
//
//	// pick the on-disk variant from a file name
//	kind, err := format.KindOf("values.yaml.gz")
//
// # Related Packages
//
//   - github.com/signadot/yedit/splice - Format preserving serializer
//   - github.com/signadot/yedit/encode - Fresh YAML encoding
package format
