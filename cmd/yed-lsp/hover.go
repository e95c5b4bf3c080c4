package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/signadot/yedit/ir"

	"go.lsp.dev/protocol"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	d := s.docs.get(string(params.TextDocument.URI))
	if d == nil || d.doc == nil {
		return nil, nil
	}
	node := nodeAt(d.doc.Root, d.offset(params.Position))
	if node == nil {
		return nil, nil
	}
	hoverText := buildHoverText(d, node)
	if hoverText == "" {
		return nil, nil
	}
	o := node.Origin()
	r := d.span(o.Start, o.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText,
		},
		Range: &r,
	}, nil
}

func buildHoverText(d *document, node *ir.Node) string {
	var parts []string
	if node.IsKey() {
		parts = append(parts, fmt.Sprintf("**Path:** `%s`", node.Parent.Values[node.ParentIndex].Path()))
		return strings.Join(parts, "\n\n")
	}
	parts = append(parts, fmt.Sprintf("**Path:** `%s`", node.Path()))

	reg := d.doc.Anchors
	switch {
	case node.Type == ir.AliasType:
		if target := reg.ResolveAlias(node); target != nil {
			parts = append(parts, fmt.Sprintf("**Alias of:** `&%s` at `%s`", node.Alias, target.Path()))
			node = target
		} else {
			parts = append(parts, fmt.Sprintf("**Dangling alias:** no anchor `&%s`", node.Alias))
			return strings.Join(parts, "\n\n")
		}
	case node.Anchor != "":
		n := reg.RefCountOf(node)
		refs := "references"
		if n == 1 {
			refs = "reference"
		}
		parts = append(parts, fmt.Sprintf("**Anchor:** `&%s`, %d %s", node.Anchor, n, refs))
	}

	parts = append(parts, fmt.Sprintf("**Type:** %s", typeInfo(node)))
	if node.Tag != "" {
		parts = append(parts, fmt.Sprintf("**Tag:** `%s`", node.Tag))
	}
	if v := valueInfo(node); v != "" {
		parts = append(parts, fmt.Sprintf("**Value:** %s", v))
	}
	return strings.Join(parts, "\n\n")
}

func typeInfo(node *ir.Node) string {
	switch node.Type {
	case ir.NumberType:
		if node.Int64 != nil {
			return "integer"
		}
		return "float"
	case ir.StringType:
		if node.Style != ir.Plain {
			return fmt.Sprintf("string (%s)", node.Style)
		}
		return "string"
	case ir.ArrayType:
		return "sequence"
	case ir.ObjectType:
		return "mapping"
	default:
		return node.Type.String()
	}
}

func valueInfo(node *ir.Node) string {
	switch node.Type {
	case ir.NullType:
		return "`null`"
	case ir.BoolType:
		return fmt.Sprintf("`%t`", node.Bool)
	case ir.NumberType:
		return fmt.Sprintf("`%s`", node.NumberText())
	case ir.StringType:
		val := node.String
		if len(val) > 50 {
			val = val[:50] + "..."
		}
		return fmt.Sprintf("`%q`", val)
	case ir.ArrayType:
		return fmt.Sprintf("%d items", len(node.Values))
	case ir.ObjectType:
		return fmt.Sprintf("%d keys", len(node.Fields))
	}
	return ""
}
