package ir

import (
	"strconv"
)

// Node is one value in a YAML document tree. Values are placed in fields
// depending on Type; for ObjectType, Fields[i] is the key node of the
// value at Values[i].
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	// Tag is kept verbatim, including the leading '!'.
	Tag    string
	Anchor string
	// Alias is the target anchor name of an AliasType node.
	Alias string

	String string
	Style  Style
	// Quote remembers the quote character ('"' or '\'') a plain string
	// was written with. It is a formatting hint, not part of the value.
	Quote byte
	Bool  bool
	// Number holds the source lexeme of a parsed number.
	Number  string
	Float64 *float64
	Int64   *int64

	// Flow marks collections written in flow style ({...} / [...]).
	Flow bool

	// Span is the source range of the node. It is nil for nodes that were
	// never parsed and is cleared when the node is modified.
	Span     *Span
	Modified bool

	origin       *Span
	dirty        bool
	restructured bool
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromStyledString(v string, style Style) *Node {
	return &Node{Type: StringType, String: v, Style: style}
}

func FromAlias(name string) *Node {
	return &Node{Type: AliasType, Alias: name}
}

func (y *Node) WithAnchor(name string) *Node {
	y.Anchor = name
	return y
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, 0, len(ySlice))}
	for i, v := range ySlice {
		v.Parent = res
		v.ParentIndex = i
		v.ParentField = ""
		res.Values = append(res.Values, v)
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object keeping the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	for i, kv := range kvs {
		res.Fields = append(res.Fields, &Node{
			Type:        StringType,
			String:      kv.Key,
			Parent:      res,
			ParentIndex: i,
			ParentField: kv.Key,
		})
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key
		res.Values = append(res.Values, kv.Val)
	}
	return res
}

func FromDocs(docs []*Node) *Node {
	res := FromSlice(docs)
	res.Type = MultiDocType
	return res
}

// Get returns the value under field of an object, or nil.
func Get(y *Node, field string) *Node {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	for i, f := range y.Fields {
		if f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

// KeyIndex returns the position of field in an object, or -1.
func (y *Node) KeyIndex(field string) int {
	if y.Type != ObjectType {
		return -1
	}
	for i, f := range y.Fields {
		if f.String == field {
			return i
		}
	}
	return -1
}

// Key returns the key node of a value whose parent is an object.
func (y *Node) Key() *Node {
	p := y.Parent
	if p == nil || p.Type != ObjectType || y.ParentIndex < 0 || y.ParentIndex >= len(p.Fields) {
		return nil
	}
	if p.Values[y.ParentIndex] != y {
		return nil
	}
	return p.Fields[y.ParentIndex]
}

// IsKey reports whether y is a key node of its parent object.
func (y *Node) IsKey() bool {
	p := y.Parent
	if p == nil || p.Type != ObjectType || y.ParentIndex < 0 || y.ParentIndex >= len(p.Fields) {
		return false
	}
	return p.Fields[y.ParentIndex] == y
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// DocRoot returns the root of the document containing y: the child of a
// MultiDoc root, or the tree root otherwise.
func (y *Node) DocRoot() *Node {
	res := y
	for res.Parent != nil {
		if res.Parent.Type == MultiDocType {
			return res
		}
		res = res.Parent
	}
	return res
}

// Contains reports whether x is y or a descendant of y.
func (y *Node) Contains(x *Node) bool {
	for ; x != nil; x = x.Parent {
		if x == y {
			return true
		}
	}
	return false
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	descend, err := f(y, false)
	if err != nil {
		return err
	}
	if !descend {
		return nil
	}
	for i, v := range y.Values {
		if y.Type == ObjectType {
			if err := y.Fields[i].Visit(f); err != nil {
				return err
			}
		}
		if err := v.Visit(f); err != nil {
			return err
		}
	}
	_, err = f(y, true)
	return err
}

// Walk calls f on y and every descendant value (not keys) in document order.
func (y *Node) Walk(f func(*Node)) {
	f(y)
	for _, v := range y.Values {
		v.Walk(f)
	}
}

// Clone deep copies y without positions or edit state.
func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Tag = y.Tag
	dst.Anchor = y.Anchor
	dst.Alias = y.Alias
	dst.String = y.String
	dst.Style = y.Style
	dst.Quote = y.Quote
	dst.Bool = y.Bool
	dst.Number = y.Number
	dst.Flow = y.Flow
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Values = make([]*Node, len(y.Values))
	for i, yv := range y.Values {
		c := yv.Clone()
		c.Parent = dst
		c.ParentIndex = i
		c.ParentField = yv.ParentField
		dst.Values[i] = c
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, yf := range y.Fields {
			c := yf.Clone()
			c.Parent = dst
			c.ParentIndex = i
			c.ParentField = yf.String
			dst.Fields[i] = c
		}
	}
	return dst
}

// Reindex restores Parent, ParentIndex and ParentField of y's children.
func (y *Node) Reindex() {
	for i, v := range y.Values {
		v.Parent = y
		v.ParentIndex = i
		v.ParentField = ""
		if y.Type == ObjectType {
			k := y.Fields[i]
			k.Parent = y
			k.ParentIndex = i
			k.ParentField = k.String
			v.ParentField = k.String
		}
	}
}

// NumberText renders a number node the way it would be written.
func (y *Node) NumberText() string {
	if y.Number != "" {
		return y.Number
	}
	if y.Int64 != nil {
		return strconv.FormatInt(*y.Int64, 10)
	}
	if y.Float64 != nil {
		return FormatFloat(*y.Float64)
	}
	return "0"
}
