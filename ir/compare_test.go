package ir

import (
	"math"
	"testing"
)

func TestEquivalent(t *testing.T) {
	quoted := FromString("x")
	quoted.Quote = '"'
	lexeme := FromInt(10)
	lexeme.Number = "0010"
	cases := []struct {
		name string
		a, b *Node
		want bool
	}{
		{"strings", FromString("x"), quoted, true},
		{"styles", FromString("x\n"), FromStyledString("x\n", Literal), true},
		{"numbers", FromInt(10), lexeme, true},
		{"int vs float", FromInt(1), FromFloat(1), false},
		{"nan", FromFloat(math.NaN()), FromFloat(math.NaN()), true},
		{"anchors", FromString("x").WithAnchor("a"), FromString("x"), true},
		{"tags", FromString("x").WithTag("!t"), FromString("x"), false},
		{
			"key order",
			FromKeyVals([]KeyVal{{Key: "a", Val: Null()}, {Key: "b", Val: Null()}}),
			FromKeyVals([]KeyVal{{Key: "b", Val: Null()}, {Key: "a", Val: Null()}}),
			false,
		},
		{"dangling", FromAlias("a"), FromAlias("a"), true},
		{"dangling names", FromAlias("a"), FromAlias("b"), false},
	}
	for _, c := range cases {
		if got := Equivalent(c.a, c.b, nil, nil); got != c.want {
			t.Errorf("%s: got %v", c.name, got)
		}
	}
}

func TestEquivalentAliases(t *testing.T) {
	def := FromString("v").WithAnchor("a")
	a := FromSlice([]*Node{def, FromAlias("a")})
	b := FromSlice([]*Node{FromString("v"), FromString("v")})
	ra := func(n *Node) *Node {
		if n.Alias == "a" {
			return def
		}
		return nil
	}
	if !Equivalent(a, b, ra, nil) {
		t.Error("expanded alias should match")
	}
	if Equivalent(a, b, nil, nil) {
		t.Error("unresolved alias should not match a string")
	}
	self := FromSlice([]*Node{FromAlias("s")}).WithAnchor("s")
	rs := func(*Node) *Node { return self }
	if !Equivalent(self, self, rs, rs) {
		t.Error("recursive structures should compare equal to themselves")
	}
}
