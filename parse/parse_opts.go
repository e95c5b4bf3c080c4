package parse

import (
	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

type parseOpts struct {
	filename  string
	comments  bool
	positions map[*ir.Node]*token.Pos
	maxSize   int
}

type ParseOption func(*parseOpts)

// WithFilename names the source in errors.
func WithFilename(name string) ParseOption {
	return func(o *parseOpts) { o.filename = name }
}

// ParseComments controls whether comments are associated with nodes.
// It is on by default.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParsePositions records the position of every parsed node, keys
// included, in m.
func ParsePositions(m map[*ir.Node]*token.Pos) ParseOption {
	return func(o *parseOpts) { o.positions = m }
}

// WithMaxSize limits the accepted source size. 0 means no limit.
func WithMaxSize(n int) ParseOption {
	return func(o *parseOpts) { o.maxSize = n }
}

func newOpts(opts []ParseOption) *parseOpts {
	o := &parseOpts{comments: true, maxSize: format.DefaultMaxSize}
	for _, f := range opts {
		f(o)
	}
	return o
}
