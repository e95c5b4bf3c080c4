package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
)

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: k, Val: v}
}

func str(s string) *ir.Node { return ir.FromString(s) }

func encodeString(t *testing.T, n *ir.Node, opts ...EncodeOption) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(n, &buf, opts...); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.String()
}

func TestEncode(t *testing.T) {
	flow := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})
	flow.Flow = true
	single := str("hi")
	single.Quote = '\''
	cases := []struct {
		name string
		node *ir.Node
		want string
	}{
		{
			name: "scalar",
			node: str("hello"),
			want: "hello\n",
		},
		{
			name: "nested",
			node: ir.FromKeyVals([]ir.KeyVal{
				kv("name", str("alice")),
				kv("age", ir.FromInt(30)),
				kv("tags", ir.FromSlice([]*ir.Node{str("a"), str("b c"), str("1")})),
				kv("nested", ir.FromKeyVals([]ir.KeyVal{
					kv("x", ir.Null()),
					kv("y", ir.FromBool(true)),
				})),
				kv("empty", ir.FromSlice(nil)),
			}),
			want: `name: alice
age: 30
tags:
  - a
  - b c
  - "1"
nested:
  x: null
  y: true
empty: []
`,
		},
		{
			name: "literal",
			node: ir.FromKeyVals([]ir.KeyVal{
				kv("script", ir.FromStyledString("echo hi\necho bye\n", ir.Literal)),
			}),
			want: "script: |\n  echo hi\n  echo bye\n",
		},
		{
			name: "anchors",
			node: ir.FromSlice([]*ir.Node{str("x").WithAnchor("a"), ir.FromAlias("a")}),
			want: "- &a x\n- *a\n",
		},
		{
			name: "tag",
			node: ir.FromKeyVals([]ir.KeyVal{kv("v", str("5").WithTag("!!str"))}),
			want: "v: !!str \"5\"\n",
		},
		{
			name: "flow",
			node: ir.FromKeyVals([]ir.KeyVal{kv("ports", flow)}),
			want: "ports: [1, 2]\n",
		},
		{
			name: "quote hint",
			node: ir.FromSlice([]*ir.Node{single}),
			want: "- 'hi'\n",
		},
		{
			name: "quoted key",
			node: ir.FromKeyVals([]ir.KeyVal{kv("a: b", ir.FromInt(1))}),
			want: "\"a: b\": 1\n",
		},
		{
			name: "sequence of maps",
			node: ir.FromSlice([]*ir.Node{
				ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1)), kv("y", ir.FromInt(2))}),
			}),
			want: "- x: 1\n  y: 2\n",
		},
		{
			name: "documents",
			node: ir.FromDocs([]*ir.Node{str("a"), str("b")}),
			want: "a\n---\nb\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := encodeString(t, c.node)
			if got != c.want {
				t.Errorf("got\n%q\nwant\n%q", got, c.want)
			}
		})
	}
}

func TestEncodeIndent(t *testing.T) {
	n := ir.FromKeyVals([]ir.KeyVal{
		kv("a", ir.FromKeyVals([]ir.KeyVal{kv("b", ir.FromInt(1))})),
	})
	got := encodeString(t, n, Indent(4))
	want := "a:\n    b: 1\n"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestEncodeComments(t *testing.T) {
	b := ir.FromKeyVals([]ir.KeyVal{kv("c", ir.FromInt(2))})
	m := ir.FromKeyVals([]ir.KeyVal{
		kv("a", ir.FromInt(1)),
		kv("b", b),
	})
	st := comment.New()
	attach := func(n *ir.Node, pos comment.Position, text string) {
		t.Helper()
		if _, err := st.Attach(n, pos, text); err != nil {
			t.Fatal(err)
		}
	}
	attach(m.Values[0], comment.Above, "top")
	attach(m.Values[0], comment.Line, "one")
	attach(b, comment.Line, "bee")
	attach(b.Values[0], comment.Below, "after c")
	attach(st.End(m), comment.Standalone, "end")

	got := encodeString(t, m, EncodeComments(st, nil))
	want := "# top\na: 1 # one\nb: # bee\n  c: 2\n  # after c\n\n# end\n"
	if got != want {
		t.Errorf("got\n%q\nwant\n%q", got, want)
	}

	got = encodeString(t, m, EncodeComments(st, func(c *comment.Comment) bool {
		return c.Position == comment.Line
	}))
	want = "a: 1 # one\nb: # bee\n  c: 2\n"
	if got != want {
		t.Errorf("filtered: got\n%q\nwant\n%q", got, want)
	}
}

func TestFragment(t *testing.T) {
	m := func() *ir.Node {
		return ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1)), kv("y", ir.FromInt(2))})
	}
	cases := []struct {
		name string
		node *ir.Node
		ctx  Context
		want string
	}{
		{"map value", m(), Context{Parent: 0, Col: 5}, "\n  x: 1\n  y: 2"},
		{"compact", m(), Context{Parent: 0, Col: 2, Compact: true}, "x: 1\n  y: 2"},
		{"flow", m(), Context{Flow: true}, "{x: 1, y: 2}"},
		{"anchored", m().WithAnchor("m"), Context{Parent: 0, Col: 2, Compact: true}, "&m\n  x: 1\n  y: 2"},
		{"literal", ir.FromStyledString("a\n", ir.Literal), Context{Parent: 2, Col: 7}, "|\n    a"},
		{"literal in flow", ir.FromStyledString("a\n", ir.Literal), Context{Flow: true}, `"a\n"`},
		{"flow string", str("a,b"), Context{Flow: true}, `"a,b"`},
		{"block string", str("a,b"), Context{Col: 3}, "a,b"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Fragment(c.node, c.ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("got %q want %q", got, c.want)
			}
		})
	}
}

func TestFragmentRootComments(t *testing.T) {
	st := comment.New()
	s := ir.FromStyledString("a\n", ir.Literal)
	if _, err := st.Attach(s, comment.Line, "hdr"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Attach(s, comment.Above, "above"); err != nil {
		t.Fatal(err)
	}
	got, err := Fragment(s, Context{Parent: 0, Col: 3}, EncodeComments(st, nil))
	if err != nil {
		t.Fatal(err)
	}
	if want := "| # hdr\n  a"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestEntryItem(t *testing.T) {
	st := comment.New()
	v := ir.FromSlice([]*ir.Node{ir.FromInt(1)})
	if _, err := st.Attach(v, comment.Above, "new"); err != nil {
		t.Fatal(err)
	}
	got, err := Entry(str("k"), v, 2, EncodeComments(st, nil))
	if err != nil {
		t.Fatal(err)
	}
	if want := "# new\n  k:\n    - 1"; got != want {
		t.Errorf("entry: got %q want %q", got, want)
	}

	m := ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1)), kv("y", ir.FromInt(2))})
	got, err = Item(m, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := "- x: 1\n    y: 2"; got != want {
		t.Errorf("item: got %q want %q", got, want)
	}

	got, err = FlowEntry(str("k"), str("v"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "k: v" {
		t.Errorf("flow entry: got %q", got)
	}
}

func TestInlineAliases(t *testing.T) {
	def := ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1))}).WithAnchor("a")
	n := ir.FromKeyVals([]ir.KeyVal{
		kv("base", def),
		kv("copy", ir.FromAlias("a")),
		kv("lost", ir.FromAlias("missing")),
	})
	resolve := func(al *ir.Node) *ir.Node {
		if al.Alias == "a" {
			return def
		}
		return nil
	}
	got := encodeString(t, n, InlineAliases(resolve), DropAnchors(true))
	want := "base:\n  x: 1\ncopy:\n  x: 1\nlost: *missing\n"
	if got != want {
		t.Errorf("got\n%q\nwant\n%q", got, want)
	}
}

func TestInlineAliasesDepth(t *testing.T) {
	self := ir.FromSlice([]*ir.Node{ir.FromAlias("s")}).WithAnchor("s")
	resolve := func(*ir.Node) *ir.Node { return self }
	got := encodeString(t, self, InlineAliases(resolve))
	if !strings.Contains(got, "null") {
		t.Errorf("expected expansion to stop with null, got %q", got)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		opts []EncodeOption
		want string
	}{
		{"nil", nil, nil, "<nil>"},
		{"mapping", ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(1))}), nil, "a: 1"},
		{"scalar", ir.FromString("x"), nil, "x"},
		{"indent", ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromSlice([]*ir.Node{ir.FromInt(1)}))}), []EncodeOption{Indent(4)}, "a:\n    - 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := String(tc.node, tc.opts...); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestColors(t *testing.T) {
	n := ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(1))})
	got := encodeString(t, n, EncodeColors(NewColors()))
	if !strings.Contains(got, "a") || !strings.Contains(got, "1") {
		t.Errorf("got %q", got)
	}
}

func TestFragmentLineComments(t *testing.T) {
	st := comment.New()
	m := ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1))})
	if _, err := st.Attach(m, comment.Line, "c"); err != nil {
		t.Fatal(err)
	}
	got, err := Fragment(m, Context{Parent: 0, Col: 3}, EncodeComments(st, nil), FragmentLineComments(true))
	if err != nil {
		t.Fatal(err)
	}
	if want := "# c\n  x: 1"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	s := str("v")
	if _, err := st.Attach(s, comment.Line, "d"); err != nil {
		t.Fatal(err)
	}
	got, err = Fragment(s, Context{Parent: 0, Col: 3}, EncodeComments(st, nil), FragmentLineComments(true))
	if err != nil {
		t.Fatal(err)
	}
	if want := "v # d"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
