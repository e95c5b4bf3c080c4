// Package doc is the editable form of a parsed YAML source: a tree with
// its anchor registry and comments, mutation operations keeping them
// consistent, and format-preserving serialization.
//
// Mutations are atomic. Each one either succeeds, marking the changed
// nodes and their ancestors for the serializer, or fails leaving the
// document as it was.
package doc

import (
	"fmt"

	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/multidoc"
	"github.com/signadot/yedit/parse"
	"github.com/signadot/yedit/splice"
)

type Document struct {
	Root     *ir.Node
	Source   []byte
	Anchors  *anchor.Registry
	Comments *comment.Store
	Layout   *multidoc.Layout
	Filename string

	opts []parse.ParseOption
}

// Load parses src into a Document.
func Load(src []byte, opts ...parse.ParseOption) (*Document, error) {
	res, err := parse.Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	d := &Document{opts: opts}
	d.reset(res)
	return d, nil
}

// New wraps a tree which has no source. It is serialized fresh.
func New(root *ir.Node) (*Document, error) {
	if root == nil {
		root = ir.Null()
	}
	if err := checkTree(root, root.Type == ir.MultiDocType); err != nil {
		return nil, err
	}
	reg := anchor.New()
	if err := reg.Register(root); err != nil {
		return nil, err
	}
	return &Document{Root: root, Anchors: reg, Comments: comment.New()}, nil
}

func (d *Document) reset(res *parse.Result) {
	d.Root = res.Root
	d.Source = res.Source
	d.Anchors = res.Anchors
	d.Comments = res.Comments
	d.Layout = res.Layout
	d.Filename = res.Filename
}

// Docs returns the document roots.
func (d *Document) Docs() []*ir.Node {
	if d.Root.Type == ir.MultiDocType {
		return d.Root.Values
	}
	return []*ir.Node{d.Root}
}

// Get returns the node at path, such as "$.spec.ports[0]". In a stream
// of several documents the path starts with the document index, as in
// "$[1].kind".
func (d *Document) Get(path string) (*ir.Node, error) {
	return d.Root.GetPath(path)
}

// StyleOf returns the style of a string node, Plain for other nodes.
func (d *Document) StyleOf(n *ir.Node) ir.Style {
	if n == nil || n.Type != ir.StringType {
		return ir.Plain
	}
	return n.Style
}

func (d *Document) input() splice.Input {
	return splice.Input{
		Source:   d.Source,
		Root:     d.Root,
		Layout:   d.Layout,
		Anchors:  d.Anchors,
		Comments: d.Comments,
	}
}

// Plan returns the save plan Serialize would follow now.
func (d *Document) Plan() *splice.SavePlan {
	return splice.Plan(d.input())
}

// Serialize writes the document. The document itself is not changed;
// call Rebase once the output is stored.
func (d *Document) Serialize(cfg format.Config) (*splice.Result, error) {
	return splice.Serialize(d.input(), cfg)
}

// Rebase replaces the document by the parse of out, normally the output
// of Serialize after it was saved. Spans, the anchor registry and the
// comments are rebuilt from scratch.
func (d *Document) Rebase(out []byte) error {
	res, err := parse.Parse(out, d.opts...)
	if err != nil {
		return fmt.Errorf("rebase: %w", err)
	}
	d.reset(res)
	return nil
}
