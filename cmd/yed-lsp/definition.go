package main

import (
	"context"

	"github.com/signadot/yedit/ir"

	"go.lsp.dev/protocol"
)

// Definition jumps from an alias to its anchor.
func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil || d.doc == nil {
		return nil, nil
	}
	node := nodeAt(d.doc.Root, d.offset(params.Position))
	if node == nil || node.Type != ir.AliasType {
		return nil, nil
	}
	target := d.doc.Anchors.ResolveAlias(node)
	if target == nil || target.Origin() == nil {
		return nil, nil
	}
	return []protocol.Location{{
		URI:   params.TextDocument.URI,
		Range: anchorRange(d, target),
	}}, nil
}

// References lists the aliases of the anchor at the position, with the
// anchor itself when the client asks for the declaration.
func (s *Server) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil || d.doc == nil {
		return nil, nil
	}
	reg := d.doc.Anchors
	node := nodeAt(d.doc.Root, d.offset(params.Position))
	if node == nil {
		return nil, nil
	}
	if node.Type == ir.AliasType {
		node = reg.ResolveAlias(node)
	}
	if node == nil || node.Anchor == "" || node.Origin() == nil {
		return nil, nil
	}
	var res []protocol.Location
	if params.Context.IncludeDeclaration {
		res = append(res, protocol.Location{URI: params.TextDocument.URI, Range: anchorRange(d, node)})
	}
	for _, a := range reg.Aliases(node) {
		if o := a.Origin(); o != nil {
			res = append(res, protocol.Location{URI: params.TextDocument.URI, Range: d.span(o.Start, o.End)})
		}
	}
	return res, nil
}

// anchorRange is the range of the "&name" property of def.
func anchorRange(d *document, def *ir.Node) protocol.Range {
	o := def.Origin()
	for i := o.Start; i < o.Body && i < len(d.content); i++ {
		if d.content[i] == '&' {
			return d.span(i, min(i+1+len(def.Anchor), len(d.content)))
		}
	}
	return d.span(o.Start, o.End)
}
