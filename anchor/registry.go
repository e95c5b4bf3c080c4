// Package anchor indexes YAML anchor definitions and the aliases
// referring to them.
//
// Anchors are scoped per document: the same name may be defined once in
// every document of a stream. Aliases which do not resolve are kept and
// flagged dangling rather than treated as errors.
package anchor

import (
	"errors"
	"fmt"

	"github.com/signadot/yedit/ir"
)

var ErrIntegrity = errors.New("anchor integrity")

type key struct {
	scope *ir.Node
	name  string
}

type Registry struct {
	anchors map[key]*ir.Node
	order   []key
	aliases map[*ir.Node]string
	// forward holds aliases which precede their anchor in document order.
	forward map[*ir.Node]bool
}

func New() *Registry {
	return &Registry{
		anchors: map[key]*ir.Node{},
		aliases: map[*ir.Node]string{},
		forward: map[*ir.Node]bool{},
	}
}

// Scope returns the document root which scopes anchors of node.
func Scope(node *ir.Node) *ir.Node {
	return node.DocRoot()
}

// RegisterAnchor records node as the definition of name in node's
// document. A second definition of name in the same document fails with
// ErrIntegrity.
func (r *Registry) RegisterAnchor(name string, node *ir.Node) error {
	k := key{Scope(node), name}
	if def, ok := r.anchors[k]; ok && def != node {
		return fmt.Errorf("%w: duplicate anchor &%s at %s", ErrIntegrity, name, node.Path())
	}
	if _, ok := r.anchors[k]; !ok {
		r.order = append(r.order, k)
	}
	r.anchors[k] = node
	return nil
}

// RegisterAlias records node as a reference to name. It never fails: an
// alias whose anchor is unknown is dangling until the anchor is
// registered.
func (r *Registry) RegisterAlias(name string, node *ir.Node) {
	r.aliases[node] = name
	if _, ok := r.anchors[key{Scope(node), name}]; !ok {
		r.forward[node] = true
	}
}

// Resolve returns the node defining name. In a stream of several
// documents the first document defining name wins; use ResolveIn to
// choose the document.
func (r *Registry) Resolve(name string) *ir.Node {
	for _, k := range r.order {
		if k.name == name {
			return r.anchors[k]
		}
	}
	return nil
}

// ResolveIn resolves name within the document rooted at scope.
func (r *Registry) ResolveIn(scope *ir.Node, name string) *ir.Node {
	return r.anchors[key{scope, name}]
}

// ResolveAlias returns the node alias refers to, or nil if it dangles.
func (r *Registry) ResolveAlias(alias *ir.Node) *ir.Node {
	name, ok := r.aliases[alias]
	if !ok {
		if alias.Type != ir.AliasType {
			return nil
		}
		name = alias.Alias
	}
	return r.anchors[key{Scope(alias), name}]
}

// Resolver adapts ResolveAlias for value comparison and conversion.
func (r *Registry) Resolver() ir.Resolver {
	return r.ResolveAlias
}

func (r *Registry) IsDangling(alias *ir.Node) bool {
	return r.ResolveAlias(alias) == nil
}

// IsForward reports whether alias appeared before its anchor when it
// was registered.
func (r *Registry) IsForward(alias *ir.Node) bool {
	return r.forward[alias] && !r.IsDangling(alias)
}

// Dangling lists aliases which resolve to nothing, in no particular
// order.
func (r *Registry) Dangling() []*ir.Node {
	var res []*ir.Node
	for a := range r.aliases {
		if r.IsDangling(a) {
			res = append(res, a)
		}
	}
	return res
}

// HasForward reports whether some alias resolves to a later anchor.
func (r *Registry) HasForward() bool {
	for a := range r.forward {
		if r.IsForward(a) {
			return true
		}
	}
	return false
}

// Anchors returns the registered anchor names in registration order.
// Names defined in several documents are listed once per document.
func (r *Registry) Anchors() []string {
	res := make([]string, 0, len(r.order))
	for _, k := range r.order {
		res = append(res, k.name)
	}
	return res
}

// Definitions returns the anchored nodes in registration order.
func (r *Registry) Definitions() []*ir.Node {
	res := make([]*ir.Node, 0, len(r.order))
	for _, k := range r.order {
		res = append(res, r.anchors[k])
	}
	return res
}

// Aliases returns the aliases referring to the anchor defined by def.
func (r *Registry) Aliases(def *ir.Node) []*ir.Node {
	if def == nil || def.Anchor == "" {
		return nil
	}
	scope := Scope(def)
	var res []*ir.Node
	for a, name := range r.aliases {
		if name == def.Anchor && Scope(a) == scope && r.anchors[key{scope, name}] == def {
			res = append(res, a)
		}
	}
	sortByOffset(res)
	return res
}

// RefCount is the number of aliases referring to name, counted as for
// Resolve.
func (r *Registry) RefCount(name string) int {
	return len(r.Aliases(r.Resolve(name)))
}

// RefCountOf is the number of aliases referring to the anchor of def.
func (r *Registry) RefCountOf(def *ir.Node) int {
	return len(r.Aliases(def))
}

// CanDelete reports whether removing node would leave an alias outside
// of it without its anchor.
func (r *Registry) CanDelete(node *ir.Node) bool {
	return r.Blocking(node) == nil
}

// Blocking returns an alias outside node referring to an anchor defined
// within node, or nil.
func (r *Registry) Blocking(node *ir.Node) *ir.Node {
	var res *ir.Node
	node.Walk(func(n *ir.Node) {
		if res != nil || n.Anchor == "" {
			return
		}
		if r.ResolveIn(Scope(n), n.Anchor) != n {
			return
		}
		for _, a := range r.Aliases(n) {
			if !node.Contains(a) {
				res = a
				return
			}
		}
	})
	return res
}

// Forget drops anchors and aliases of node and its descendants.
func (r *Registry) Forget(node *ir.Node) {
	node.Walk(func(n *ir.Node) {
		delete(r.aliases, n)
		delete(r.forward, n)
		if n.Anchor == "" {
			return
		}
		k := key{Scope(n), n.Anchor}
		if r.anchors[k] != n {
			return
		}
		delete(r.anchors, k)
		for i := range r.order {
			if r.order[i] == k {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	})
}

// Register indexes the anchors and aliases of node and its descendants
// in document order.
func (r *Registry) Register(node *ir.Node) error {
	var err error
	node.Walk(func(n *ir.Node) {
		if err != nil {
			return
		}
		if n.Anchor != "" {
			err = r.RegisterAnchor(n.Anchor, n)
		}
		if n.Type == ir.AliasType {
			r.RegisterAlias(n.Alias, n)
		}
	})
	return err
}

// Rebuild discards everything and indexes root from scratch.
func (r *Registry) Rebuild(root *ir.Node) error {
	*r = *New()
	return r.Register(root)
}
