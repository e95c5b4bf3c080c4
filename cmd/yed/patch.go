package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/signadot/yedit/doc"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/parse"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

var ErrPatch = errors.New("json patch")

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires a patch file and a file", cli.ErrUsage)
	}
	d, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	ops, err := decodePatch(d)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return editFile(cfg.MainConfig, cc, args[1], func(d *doc.Document) error {
		return applyPatch(d, cfg.Doc, ops)
	})
}

// decodePatch reads a JSON patch written as JSON or YAML.
func decodePatch(d []byte) (jsonpatch.Patch, error) {
	res, err := parse.Parse(d, parse.ParseComments(false))
	if err != nil {
		return nil, err
	}
	j, err := json.Marshal(ir.ToAny(res.Root, res.Anchors.Resolver()))
	if err != nil {
		return nil, err
	}
	return jsonpatch.DecodePatch(j)
}

// applyPatch applies ops to document i of d as native edits, so that
// everything the patch does not touch keeps its text. Operations are
// applied in order; the first failure stops the patch.
func applyPatch(d *doc.Document, i int, ops jsonpatch.Patch) error {
	docs := d.Docs()
	if i < 0 || i >= len(docs) {
		return fmt.Errorf("%w: no document %d", ErrPatch, i)
	}
	p := &patcher{d: d, root: docs[i]}
	for j, op := range ops {
		if err := p.apply(op); err != nil {
			return fmt.Errorf("%w: operation %d (%s): %w", ErrPatch, j, op.Kind(), err)
		}
	}
	return nil
}

type patcher struct {
	d    *doc.Document
	root *ir.Node
}

func (p *patcher) apply(op jsonpatch.Operation) error {
	path, err := op.Path()
	if err != nil {
		return err
	}
	switch op.Kind() {
	case "add":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		return p.add(path, v)
	case "remove":
		n, err := p.find(path)
		if err != nil {
			return err
		}
		return p.d.Delete(n)
	case "replace":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		n, err := p.find(path)
		if err != nil {
			return err
		}
		return p.d.SetValue(n, v)
	case "move":
		from, err := op.From()
		if err != nil {
			return err
		}
		n, err := p.find(from)
		if err != nil {
			return err
		}
		v := n.Clone()
		if err := p.d.Delete(n); err != nil {
			return err
		}
		return p.add(path, v)
	case "copy":
		from, err := op.From()
		if err != nil {
			return err
		}
		n, err := p.find(from)
		if err != nil {
			return err
		}
		// the copy is plain data: anchors may not be defined twice.
		v, err := ir.FromAny(ir.ToAny(n, p.d.Anchors.Resolver()))
		if err != nil {
			return err
		}
		return p.add(path, v)
	case "test":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		n, err := p.find(path)
		if err != nil {
			return err
		}
		if !ir.Equivalent(n, v, p.d.Anchors.Resolver(), nil) {
			return fmt.Errorf("test failed at %q", path)
		}
		return nil
	default:
		return fmt.Errorf("unsupported operation %q", op.Kind())
	}
}

func opValue(op jsonpatch.Operation) (*ir.Node, error) {
	raw, ok := op["value"]
	if !ok || raw == nil {
		return nil, errors.New("missing value")
	}
	v, err := parseValue(string(*raw))
	if err != nil {
		return nil, err
	}
	plainStyle(v)
	return v, nil
}

// plainStyle drops the JSON quoting and flow hints of a patch value so
// that it is formatted like the YAML around it.
func plainStyle(n *ir.Node) {
	n.Quote = 0
	n.Flow = false
	for _, f := range n.Fields {
		f.Quote = 0
	}
	for _, v := range n.Values {
		plainStyle(v)
	}
}

// add sets the member named by the last token of path, or inserts the
// sequence item before it.
func (p *patcher) add(path string, v *ir.Node) error {
	toks, err := pointerTokens(path)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return p.d.SetValue(p.root, v)
	}
	parent, err := p.walk(toks[:len(toks)-1])
	if err != nil {
		return err
	}
	last := toks[len(toks)-1]
	switch parent.Type {
	case ir.ObjectType:
		if n := ir.Get(parent, last); n != nil {
			return p.d.SetValue(n, v)
		}
		_, err = p.d.InsertChild(parent, doc.AtKey(last), v)
	case ir.ArrayType:
		k := doc.Append()
		if last != "-" {
			i, err := strconv.Atoi(last)
			if err != nil {
				return fmt.Errorf("bad index %q", last)
			}
			k = doc.AtIndex(i)
		}
		_, err = p.d.InsertChild(parent, k, v)
	default:
		return fmt.Errorf("cannot add to %s at %s", parent.Type, parent.Path())
	}
	return err
}

func (p *patcher) find(path string) (*ir.Node, error) {
	toks, err := pointerTokens(path)
	if err != nil {
		return nil, err
	}
	return p.walk(toks)
}

func (p *patcher) walk(toks []string) (*ir.Node, error) {
	n := p.root
	for _, tok := range toks {
		var next *ir.Node
		switch n.Type {
		case ir.ObjectType:
			next = ir.Get(n, tok)
		case ir.ArrayType:
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(n.Values) {
				next = n.Values[i]
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: no %q in %s", ir.ErrNotFound, tok, n.Path())
		}
		n = next
	}
	return n, nil
}

var pointerUnescape = strings.NewReplacer("~1", "/", "~0", "~")

// pointerTokens splits a JSON pointer into its unescaped reference
// tokens.
func pointerTokens(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("bad pointer %q", ptr)
	}
	toks := strings.Split(ptr[1:], "/")
	for i, t := range toks {
		toks[i] = pointerUnescape.Replace(t)
	}
	return toks, nil
}
