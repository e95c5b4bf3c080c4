package main

import (
	"bytes"
	"context"

	"github.com/signadot/yedit/format"

	"go.lsp.dev/protocol"
)

// Formatting replaces the document by its fresh serialization.
func (s *Server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil || d.doc == nil {
		return nil, nil
	}
	cfg := format.NewConfig()
	cfg.Preserve = false
	if n := int(params.Options.TabSize); n > 0 && n <= format.MaxIndent {
		cfg.Indent = n
	}
	res, err := d.doc.Serialize(cfg)
	if err != nil {
		return nil, nil
	}
	if bytes.Equal(res.Output, d.content) {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{
		{
			Range:   d.span(0, len(d.content)),
			NewText: string(res.Output),
		},
	}, nil
}
