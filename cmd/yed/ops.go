package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/doc"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/parse"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

// nodePath turns a command line path such as "a.b[0]" into a tree path.
func nodePath(p string) string {
	switch {
	case p == "" || p == "$":
		return "$"
	case strings.HasPrefix(p, "$"):
		return p
	case strings.HasPrefix(p, "[") || strings.HasPrefix(p, "."):
		return "$" + p
	default:
		return "$." + p
	}
}

func lookup(d *doc.Document, p string) (*ir.Node, error) {
	n, err := d.Get(nodePath(p))
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: nothing at %s", ir.ErrNotFound, nodePath(p))
	}
	return n, nil
}

// lookupAll returns the nodes matched by p, which may use the [*] and
// .. wildcards.
func lookupAll(d *doc.Document, p string) ([]*ir.Node, error) {
	np := nodePath(p)
	if !strings.Contains(np, "[*]") && !strings.Contains(np, "..") {
		n, err := lookup(d, p)
		if err != nil {
			return nil, err
		}
		return []*ir.Node{n}, nil
	}
	res, err := d.Root.ListPath(nil, np)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %s", ir.ErrNotFound, np)
	}
	return res, nil
}

// parseValue reads a value given on the command line as YAML.
func parseValue(s string) (*ir.Node, error) {
	res, err := parse.Parse([]byte(s), parse.ParseComments(false), parse.WithFilename("<value>"))
	if err != nil {
		return nil, err
	}
	if res.Root.Type == ir.MultiDocType {
		return nil, fmt.Errorf("%w: value holds several documents", cli.ErrUsage)
	}
	res.Root.StripPositions()
	return res.Root, nil
}

// evalValue evaluates src with doc, old and env bound.
func evalValue(d *doc.Document, old *ir.Node, src string) (*ir.Node, error) {
	env := map[string]any{
		"doc": ir.ToAny(d.Root, d.Anchors.Resolver()),
		"old": ir.ToAny(old, d.Anchors.Resolver()),
		"env": osEnv(),
	}
	v, err := expr.Eval(src, env)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", src, err)
	}
	return ir.FromAny(v)
}

func osEnv() map[string]any {
	res := map[string]any{}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		res[k] = v
	}
	return res
}

// valueMode says how the value argument of an edit is read.
type valueMode int

const (
	yamlValue valueMode = iota
	stringValue
	exprValue
)

func setPath(d *doc.Document, p, value string, mode valueMode) error {
	n, err := lookup(d, p)
	if err != nil {
		return err
	}
	switch mode {
	case stringValue:
		return d.SetString(n, value)
	case exprValue:
		v, err := evalValue(d, n, value)
		if err != nil {
			return err
		}
		return d.SetValue(n, v)
	}
	v, err := parseValue(value)
	if err != nil {
		return err
	}
	return d.SetValue(n, v)
}

func removePath(d *doc.Document, p string) error {
	n, err := lookup(d, p)
	if err != nil {
		return err
	}
	return d.Delete(n)
}

func renamePath(d *doc.Document, p, key string) error {
	n, err := lookup(d, p)
	if err != nil {
		return err
	}
	if n.Parent == nil || n.Parent.Type != ir.ObjectType {
		return fmt.Errorf("%w: %s is not a mapping entry", doc.ErrEditConstraint, n.Path())
	}
	return d.RenameKey(n.Parent, n.ParentField, key)
}

func insertPath(d *doc.Document, p, key, value string, mode valueMode) error {
	parent, err := lookup(d, p)
	if err != nil {
		return err
	}
	var v *ir.Node
	if mode == stringValue {
		v = ir.FromString(value)
	} else if v, err = parseValue(value); err != nil {
		return err
	}
	var k doc.Key
	switch {
	case parent.Type == ir.ObjectType:
		k = doc.AtKey(key)
	case key == "-":
		k = doc.Append()
	default:
		i, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("%w: %q is not an index", cli.ErrUsage, key)
		}
		k = doc.AtIndex(i)
	}
	_, err = d.InsertChild(parent, k, v)
	return err
}

// commentPath attaches a comment, or with remove set detaches the
// comments at pos. Position "end" targets the end of the collection at
// p.
func commentPath(d *doc.Document, p, pos, text string, remove bool) error {
	n, err := lookup(d, p)
	if err != nil {
		return err
	}
	cp := comment.Standalone
	if pos == "end" {
		if n, err = d.EndOf(n); err != nil {
			return err
		}
	} else if cp, err = comment.ParsePosition(pos); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if remove {
		_, err = d.DetachComment(n, cp)
		return err
	}
	_, err = d.AttachComment(n, cp, text)
	return err
}

// applyEdit runs an edit given as words: a command name and its
// arguments, the last of which may contain spaces.
func applyEdit(d *doc.Document, words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: no edit given", cli.ErrUsage)
	}
	arity := map[string]int{"set": 3, "rm": 2, "mv": 3, "ins": 4, "comment": 4, "uncomment": 3}
	n, ok := arity[words[0]]
	if !ok {
		return fmt.Errorf("%w: unknown edit %q", cli.ErrUsage, words[0])
	}
	if len(words) != n {
		return fmt.Errorf("%w: %s takes %d arguments", cli.ErrUsage, words[0], n-1)
	}
	switch words[0] {
	case "set":
		return setPath(d, words[1], words[2], yamlValue)
	case "rm":
		return removePath(d, words[1])
	case "mv":
		return renamePath(d, words[1], words[2])
	case "ins":
		return insertPath(d, words[1], words[2], words[3], yamlValue)
	case "comment":
		return commentPath(d, words[1], words[2], words[3], false)
	default:
		return commentPath(d, words[1], words[2], "", true)
	}
}

// splitEdit splits a line into the words of an edit command. The value
// of set and ins and the text of comment extend to the end of the line.
func splitEdit(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	n := map[string]int{"set": 3, "ins": 4, "comment": 4}[fields[0]]
	if n == 0 || len(fields) <= n {
		return fields
	}
	rest := strings.TrimSpace(line)
	for range n - 1 {
		rest = strings.TrimSpace(rest[len(strings.Fields(rest)[0]):])
	}
	return append(fields[:n-1:n-1], rest)
}
