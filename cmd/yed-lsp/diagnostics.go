package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/doc"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/parse"
	"github.com/signadot/yedit/token"

	"go.lsp.dev/protocol"
)

const diagSource = "yed"

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// document is an open text document. doc is nil when content does not
// parse; err then holds the failure.
type document struct {
	uri     string
	content []byte
	version int32
	lines   *token.PosDoc
	doc     *doc.Document
	err     error
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) *document {
	d := []byte(content)
	res := &document{
		uri:     uri,
		content: d,
		version: version,
		lines:   token.NewPosDoc(d),
	}
	res.doc, res.err = doc.Load(d, parse.WithFilename(uri))

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = res
	return res
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// position converts a byte offset of the content.
func (d *document) position(off int) protocol.Position {
	line, col := d.lines.LineCol(off)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func (d *document) offset(p protocol.Position) int {
	return d.lines.Offset(int(p.Line), int(p.Character))
}

func (d *document) span(start, end int) protocol.Range {
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

func (s *Server) publishDiagnostics(ctx context.Context, d *document) {
	if s.conn == nil {
		return
	}
	err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(d.uri),
		Diagnostics: validateDocument(d),
	})
	if err != nil && debug.LSP() {
		debug.Logf("publish diagnostics %s: %v\n", d.uri, err)
	}
}

// validateDocument reports the parse error of d, or its dangling aliases.
func validateDocument(d *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if d.err != nil {
		diag := protocol.Diagnostic{
			Severity: protocol.DiagnosticSeverityError,
			Message:  d.err.Error(),
			Source:   diagSource,
		}
		var pe *parse.Error
		if errors.As(d.err, &pe) {
			diag.Message = pe.Err.Error()
			diag.Range = d.span(pe.Pos.I, min(pe.Pos.I+1, len(d.content)))
		}
		return append(diagnostics, diag)
	}
	for _, a := range d.doc.Anchors.Dangling() {
		o := a.Origin()
		if o == nil {
			continue
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    d.span(o.Start, o.End),
			Severity: protocol.DiagnosticSeverityWarning,
			Message:  fmt.Sprintf("alias *%s has no anchor", a.Alias),
			Source:   diagSource,
		})
	}
	return diagnostics
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	d := s.docs.put(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, d)
	return nil
}

// DidChange takes the last change, which holds the whole text with full
// document sync.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	d := s.docs.put(string(params.TextDocument.URI), text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, d)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}

// nodeAt returns the deepest node whose source span holds off.
func nodeAt(root *ir.Node, off int) *ir.Node {
	var best *ir.Node
	var visit func(*ir.Node)
	visit = func(n *ir.Node) {
		if n == nil {
			return
		}
		if o := n.Origin(); o != nil {
			if off < o.Start || off >= o.End {
				return
			}
			best = n
		}
		for _, f := range n.Fields {
			visit(f)
		}
		for _, v := range n.Values {
			visit(v)
		}
	}
	visit(root)
	return best
}
