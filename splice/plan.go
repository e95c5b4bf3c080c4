package splice

import (
	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/debug"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/multidoc"
)

// Tier says how a node is written back.
type Tier int

const (
	// Verbatim nodes are copied from the source.
	Verbatim Tier = iota
	// Patch nodes are copied around their changed descendants.
	Patch
	// Restructure nodes had entries added or removed. Surviving entries
	// keep their text, new ones are formatted.
	Restructure
	// Fresh nodes are formatted from scratch.
	Fresh
	// Fallback nodes belong to a section holding anchors or aliases
	// whose structure changed. The section is formatted from scratch
	// with aliases expanded.
	Fallback
)

func (t Tier) String() string {
	switch t {
	case Verbatim:
		return "verbatim"
	case Patch:
		return "patch"
	case Restructure:
		return "restructure"
	case Fresh:
		return "fresh"
	case Fallback:
		return "fallback"
	default:
		return "<unknown tier>"
	}
}

// Input is a parsed source together with its edited tree.
type Input struct {
	Source   []byte
	Root     *ir.Node
	Layout   *multidoc.Layout
	Anchors  *anchor.Registry
	Comments *comment.Store
}

// SavePlan assigns a tier to every value of a tree.
type SavePlan struct {
	tiers    map[*ir.Node]Tier
	order    []*ir.Node
	sections []*ir.Node
}

// Plan computes the tiers of in.Root.
func Plan(in Input) *SavePlan {
	p := &SavePlan{tiers: map[*ir.Node]Tier{}}
	if in.Root == nil {
		return p
	}
	docs := []*ir.Node{in.Root}
	if in.Root.Type == ir.MultiDocType {
		docs = in.Root.Values
	}
	inSection := map[*ir.Node]bool{}
	for _, d := range docs {
		for _, sec := range fallbackSections(d, in.Anchors) {
			p.sections = append(p.sections, sec)
			inSection[sec] = true
		}
	}
	var assign func(n *ir.Node, fallback bool)
	assign = func(n *ir.Node, fallback bool) {
		fallback = fallback || inSection[n]
		t := tierOf(n, fallback)
		p.tiers[n] = t
		p.order = append(p.order, n)
		for _, v := range n.Values {
			assign(v, fallback)
		}
	}
	for _, d := range docs {
		assign(d, false)
	}
	if debug.Plan() {
		for _, n := range p.order {
			if t := p.tiers[n]; t != Verbatim {
				debug.Logf("plan %s %s\n", n.Path(), t)
			}
		}
	}
	return p
}

func tierOf(n *ir.Node, fallback bool) Tier {
	switch {
	case fallback:
		return Fallback
	case n.Origin() == nil || n.Modified:
		return Fresh
	case n.SpanValid():
		return Verbatim
	case n.Restructured():
		if len(n.Values) == 0 {
			return Fresh
		}
		return Restructure
	case n.Dirty():
		return Patch
	}
	return Fresh
}

// Tier returns the tier of n. Nodes outside the planned tree are Fresh.
func (p *SavePlan) Tier(n *ir.Node) Tier {
	if t, ok := p.tiers[n]; ok {
		return t
	}
	return Fresh
}

// Nodes returns the planned values in document order.
func (p *SavePlan) Nodes() []*ir.Node {
	return p.order
}

// FallbackSections returns the roots of the sections written with
// aliases expanded.
func (p *SavePlan) FallbackSections() []*ir.Node {
	return p.sections
}

// Counts returns how many nodes fall in each tier.
func (p *SavePlan) Counts() map[Tier]int {
	res := map[Tier]int{}
	for _, t := range p.tiers {
		res[t]++
	}
	return res
}

// fallbackSections finds the restructured parsed nodes of doc touching
// anchors or aliases, widened until every alias of an anchor inside a
// section lies in that section.
func fallbackSections(doc *ir.Node, reg *anchor.Registry) []*ir.Node {
	var cands []*ir.Node
	doc.Walk(func(n *ir.Node) {
		if n.Restructured() && n.Origin() != nil && hasRefs(n) {
			cands = append(cands, closure(n, doc, reg))
		}
	})
	var res []*ir.Node
	for i, c := range cands {
		nested := false
		for j, o := range cands {
			if i == j {
				continue
			}
			if o != c && o.Contains(c) || o == c && j < i {
				nested = true
				break
			}
		}
		if !nested {
			res = append(res, c)
		}
	}
	return res
}

// hasRefs reports whether n holds parsed anchors or aliases. Inserted
// ones are encoded fresh with their syntax kept.
func hasRefs(n *ir.Node) bool {
	found := false
	n.Walk(func(x *ir.Node) {
		if x.Origin() == nil {
			return
		}
		if x.Anchor != "" || x.Type == ir.AliasType {
			found = true
		}
	})
	return found
}

func closure(n, doc *ir.Node, reg *anchor.Registry) *ir.Node {
	if reg == nil {
		return n
	}
	sec := n
	for {
		var out []*ir.Node
		sec.Walk(func(x *ir.Node) {
			if x.Anchor == "" {
				return
			}
			for _, a := range reg.Aliases(x) {
				if !sec.Contains(a) {
					out = append(out, a)
				}
			}
		})
		if len(out) == 0 {
			return sec
		}
		for _, a := range out {
			sec = commonAncestor(sec, a)
		}
		if sec == nil || !doc.Contains(sec) {
			return doc
		}
	}
}

func commonAncestor(a, b *ir.Node) *ir.Node {
	for p := a; p != nil; p = p.Parent {
		if p.Contains(b) {
			return p
		}
	}
	return nil
}
