package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	ArrayType
	ObjectType
	AliasType
	MultiDocType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:     "Null",
		BoolType:     "Bool",
		NumberType:   "Number",
		StringType:   "String",
		ArrayType:    "Array",
		ObjectType:   "Object",
		AliasType:    "Alias",
		MultiDocType: "MultiDoc",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":     NullType,
		"Bool":     BoolType,
		"Number":   NumberType,
		"String":   StringType,
		"Array":    ArrayType,
		"Object":   ObjectType,
		"Alias":    AliasType,
		"MultiDoc": MultiDocType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

// Types lists every variant. Consumers switching on Type are expected to
// handle each of them.
func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		NumberType,
		StringType,
		ArrayType,
		ObjectType,
		AliasType,
		MultiDocType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ArrayType, ObjectType, MultiDocType:
		return false
	default:
		return true
	}
}

func (t Type) IsContainer() bool {
	return !t.IsLeaf()
}

// Style is the presentation of a string scalar. Literal and Folded are
// part of the value's identity: editing the content of a Literal string
// keeps it Literal.
type Style int

const (
	Plain Style = iota
	Literal
	Folded
)

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case Literal:
		return "literal"
	case Folded:
		return "folded"
	default:
		return "<unknown style>"
	}
}

// Indicator is the block scalar header character for s, or 0.
func (s Style) Indicator() byte {
	switch s {
	case Literal:
		return '|'
	case Folded:
		return '>'
	default:
		return 0
	}
}
