package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/token"
)

func mustParse(t *testing.T, in string, opts ...ParseOption) *Result {
	t.Helper()
	res, err := Parse([]byte(in), opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return res
}

func toAny(res *Result) any {
	return ir.ToAny(res.Root, res.Anchors.Resolver())
}

func TestParseValues(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"null", nil},
		{"true", true},
		{"22", 22},
		{"-2.5", -2.5},
		{`"hello"`, "hello"},
		{"hello world", "hello world"},
		{"a: 1", map[string]any{"a": 1}},
		{"key: value # note", map[string]any{"key": "value"}},
		{"a:\n  b: x\n  c: y\n", map[string]any{"a": map[string]any{"b": "x", "c": "y"}}},
		{"a:\n- 1\n- 2\n", map[string]any{"a": []any{1, 2}}},
		{"- a\n- b: 1\n  c: 2\n", []any{"a", map[string]any{"b": 1, "c": 2}}},
		{"- - x\n  - y\n", []any{[]any{"x", "y"}}},
		{"[a, {b: c}, [1, 2]]", []any{"a", map[string]any{"b": "c"}, []any{1, 2}}},
		{"{a, b: }", map[string]any{"a": nil, "b": nil}},
		{"[\n  a,\n  b\n]", []any{"a", "b"}},
		{"a: !!str 5", map[string]any{"a": "5"}},
		{"a: '5'", map[string]any{"a": "5"}},
		{"a: 'it''s'", map[string]any{"a": "it's"}},
		{`a: "x\ty"`, map[string]any{"a": "x\ty"}},
		{"a:\nb: 1", map[string]any{"a": nil, "b": 1}},
		{"a: one\n  two\n\n  three\n", map[string]any{"a": "one two\nthree"}},
		{"a: |\n  x\n  y\n", map[string]any{"a": "x\ny\n"}},
		{"a: >-\n  p\n  q\n", map[string]any{"a": "p q"}},
		{"a: |+\n  z\n\nb: 1\n", map[string]any{"a": "z\n\n", "b": 1}},
		{"a: |2\n    x\n", map[string]any{"a": "  x\n"}},
		{"- &a x\n- *a\n", []any{"x", "x"}},
		{"- *a\n- &a x\n", []any{"x", "x"}},
		{"base: &b\n  x: 1\nuse: *b\n", map[string]any{
			"base": map[string]any{"x": 1},
			"use":  map[string]any{"x": 1},
		}},
		{"\xef\xbb\xbfa: 1", map[string]any{"a": 1}},
		{"a: 1\n---\nb: 2\n", []any{map[string]any{"a": 1}, map[string]any{"b": 2}}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			res := mustParse(t, c.in)
			if diff := cmp.Diff(c.want, toAny(res)); diff != "" {
				t.Errorf("-want +got:\n%s", diff)
			}
		})
	}
}

func TestParseMatchesYAMLv3(t *testing.T) {
	ins := []string{
		"a: 1\nb: [x, y]\nc: {d: true, e: null}\n",
		"- a\n- b: 1\n  c: 2\n- - x\n  - y\n",
		"a: |\n  x\n  y\nb: >-\n  p\n  q\n\nc: |+\n  z\n\nd: 1\n",
		"a: \"x\\ty\"\nb: 'it''s'\n",
		"base: &b {x: 1}\nuse: *b\n",
		"a: one\n  two\n\n  three\n",
		"a:\n- 1\n- 2\nf: 1.5\ng: -2.25\n",
		"# comment\nk: v # trailing\nlist:\n  # inside\n  - 1\n",
		"a: >\n  folded\n  text\n\n  para\n",
	}
	for _, in := range ins {
		t.Run(in, func(t *testing.T) {
			var want any
			if err := yaml.Unmarshal([]byte(in), &want); err != nil {
				t.Fatal(err)
			}
			res := mustParse(t, in)
			if diff := cmp.Diff(want, toAny(res)); diff != "" {
				t.Errorf("-yaml.v3 +parse:\n%s", diff)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	src := "a: 1\nb:\n  c: x\nd: [1, 2]\n"
	res := mustParse(t, src)
	root := res.Root
	rs := root.Origin()
	if rs == nil || !rs.Block || rs.Col != 0 || rs.Start != 0 {
		t.Fatalf("root span %+v", rs)
	}
	b := ir.Get(root, "b")
	bs := b.Origin()
	if bs.Entry != strings.Index(src, "b:") {
		t.Errorf("b entry %d", bs.Entry)
	}
	if bs.Start != strings.Index(src, "c:") || bs.Col != 2 || !bs.Block {
		t.Errorf("b span %+v", bs)
	}
	c := ir.Get(b, "c")
	cs := c.Origin()
	if string(cs.Text(src2b(src))) != "x" {
		t.Errorf("c text %q", cs.Text(src2b(src)))
	}
	d := ir.Get(root, "d")
	if got := string(d.Origin().Text(src2b(src))); got != "[1, 2]" {
		t.Errorf("d text %q", got)
	}
	if !d.Flow {
		t.Error("d should be flow")
	}
	if !c.SpanValid() || c.Dirty() {
		t.Error("fresh parse should be valid")
	}
	k := root.Fields[1]
	if got := string(k.Origin().Text(src2b(src))); got != "b" {
		t.Errorf("key text %q", got)
	}
}

func src2b(s string) []byte { return []byte(s) }

func TestParseBlockScalarSpan(t *testing.T) {
	src := "a: &x |\n  one\n  two\nb: 1\n"
	res := mustParse(t, src)
	a := ir.Get(res.Root, "a")
	s := a.Origin()
	if got := string(s.Text(res.Source)); got != "&x |\n  one\n  two" {
		t.Errorf("span text %q", got)
	}
	if s.Body != strings.Index(src, "|") {
		t.Errorf("body %d", s.Body)
	}
	if a.Style != ir.Literal || a.Anchor != "x" {
		t.Errorf("style %v anchor %q", a.Style, a.Anchor)
	}
}

func TestParseQuoteHint(t *testing.T) {
	res := mustParse(t, "a: 'x'\nb: \"y\"\nc: z\n")
	for k, q := range map[string]byte{"a": '\'', "b": '"', "c": 0} {
		if got := ir.Get(res.Root, k).Quote; got != q {
			t.Errorf("%s: quote %q want %q", k, got, q)
		}
	}
}

func TestParseTagsAndNumbers(t *testing.T) {
	res := mustParse(t, "a: !custom x\nb: 0010\nc: !<tag:yaml.org,2002:str> 3\n")
	if got := ir.Get(res.Root, "a").Tag; got != "!custom" {
		t.Errorf("tag %q", got)
	}
	if got := ir.Get(res.Root, "b").NumberText(); got != "0010" {
		t.Errorf("number lexeme %q", got)
	}
	if c := ir.Get(res.Root, "c"); c.Type != ir.StringType || c.String != "3" {
		t.Errorf("verbatim str tag: %v %q", c.Type, c.String)
	}
}

func TestParseDocuments(t *testing.T) {
	res := mustParse(t, "a: 1\n---\nb: 2\n")
	if res.Root.Type != ir.MultiDocType || len(res.Docs) != 2 {
		t.Fatalf("root %v docs %d", res.Root.Type, len(res.Docs))
	}
	if len(res.Layout.Segments) != 2 {
		t.Errorf("segments %d", len(res.Layout.Segments))
	}
	if v := ir.Get(res.Docs[1], "b"); v == nil || *v.Int64 != 2 {
		t.Errorf("second doc %v", v)
	}
}

func TestParsePositions(t *testing.T) {
	m := map[*ir.Node]*token.Pos{}
	res := mustParse(t, "a:\n  b: 1\n", ParsePositions(m))
	b := ir.Get(ir.Get(res.Root, "a"), "b")
	p := m[b]
	if p == nil {
		t.Fatal("no position recorded")
	}
	if p.Line() != 1 || p.Col() != 5 {
		t.Errorf("position %s", p)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts []ParseOption
		is   error
		pos  string
	}{
		{name: "duplicate key", in: "a: 1\na: 2\n", is: ErrParse, pos: "<input>:2:1:"},
		{name: "filename", in: "a: 1\na: 2\n", opts: []ParseOption{WithFilename("x.yaml")}, pos: "x.yaml:2:1:"},
		{name: "complex key", in: "? a\n: b\n", is: errComplexKey},
		{name: "flow key", in: "[a]: b\n", is: errComplexKey},
		{name: "key props", in: "&x a: 1\n", is: errKeyProps},
		{name: "flow key props", in: "{&x a: 1}\n", is: errKeyProps},
		{name: "alias key", in: "a: &x 1\n*x : 2\n", is: errAliasKey},
		{name: "tab", in: "a:\n\tb: 1\n", is: token.ErrTab},
		{name: "duplicate anchor", in: "a: &x 1\nb: &x 2\n", is: anchor.ErrIntegrity, pos: "<input>:2:4:"},
		{name: "recursive alias", in: "a: &x\n  b: *x\n", is: ErrParse},
		{name: "bad utf8", in: "a: \xff\n", is: ErrEncoding},
		{name: "too large", in: "a: 1234", opts: []ParseOption{WithMaxSize(4)}, is: ErrTooLarge},
		{name: "unterminated quote", in: "a: \"x", is: ErrParse},
		{name: "unterminated flow", in: "a: [1, 2", is: ErrParse},
		{name: "bad indentation", in: "a:\n    b: 1\n  c: 2\n", is: ErrParse},
		{name: "trailing content", in: "a\nb: 1\n", is: ErrParse},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.in), c.opts...)
			if err == nil {
				t.Fatal("expected an error")
			}
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("%v is not an *Error", err)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("%v does not match ErrParse", err)
			}
			if c.is != nil && !errors.Is(err, c.is) {
				t.Errorf("%v does not match %v", err, c.is)
			}
			if c.pos != "" && !strings.HasPrefix(err.Error(), c.pos) {
				t.Errorf("error %q should start with %q", err, c.pos)
			}
		})
	}
}

type attached struct {
	Path string
	Pos  string
	Text string
}

func comments(res *Result) []attached {
	var out []attached
	res.Comments.Each(func(n *ir.Node, cs []*comment.Comment) {
		p := n.Path()
		if c, ok := res.Comments.IsEnd(n); ok {
			p = c.Path() + "/end"
		}
		for _, c := range cs {
			out = append(out, attached{p, c.Position.String(), c.Text})
		}
	})
	return out
}

func findComment(cs []attached, text string) (attached, bool) {
	for _, c := range cs {
		if c.Text == text {
			return c, true
		}
	}
	return attached{}, false
}

func TestAssociateComments(t *testing.T) {
	src := `# head
a: 1 # inline a
# above b
b:
  c: 2
  # below c

# before d
d: 3

# tail
`
	res := mustParse(t, src)
	cs := comments(res)
	want := map[string]attached{
		"# head":     {"$.a", "above", "# head"},
		"# inline a": {"$.a", "line", "# inline a"},
		"# above b":  {"$.b", "above", "# above b"},
		"# below c":  {"$.b.c", "below", "# below c"},
		"# before d": {"$.d", "above", "# before d"},
		"# tail":     {"$/end", "standalone", "# tail"},
	}
	if len(cs) != len(want) {
		t.Errorf("got %d comments: %+v", len(cs), cs)
	}
	for text, w := range want {
		got, ok := findComment(cs, text)
		if !ok {
			t.Errorf("comment %q not attached", text)
			continue
		}
		if diff := cmp.Diff(w, got); diff != "" {
			t.Errorf("%q -want +got:\n%s", text, diff)
		}
	}
}

func TestAssociateCommentSource(t *testing.T) {
	src := "a: 1 # x\n# own\nb: 2\n"
	res := mustParse(t, src)
	a := ir.Get(res.Root, "a")
	line := res.Comments.At(a, comment.Line)
	if len(line) != 1 {
		t.Fatalf("line comments %v", line)
	}
	if r := line[0].Src; r == nil || r.Start != strings.Index(src, " # x") || r.End != strings.Index(src, "\n") {
		t.Errorf("inline src %+v", r)
	}
	b := ir.Get(res.Root, "b")
	above := res.Comments.At(b, comment.Above)
	if len(above) != 1 {
		t.Fatalf("above comments %v", above)
	}
	own := strings.Index(src, "# own")
	if r := above[0].Src; r == nil || r.Start != own || r.End != own+len("# own\n") {
		t.Errorf("own line src %+v", r)
	}
}

func TestAssociateFlowComments(t *testing.T) {
	res := mustParse(t, "a: [1, # one\n  2]\n")
	a := ir.Get(res.Root, "a")
	if got := res.Comments.At(a, comment.Line); len(got) != 1 || got[0].Text != "# one" {
		t.Errorf("flow comments %v", got)
	}
}

func TestAssociateBlockScalarHeader(t *testing.T) {
	res := mustParse(t, "a: | # hdr\n  x\n")
	a := ir.Get(res.Root, "a")
	if got := res.Comments.At(a, comment.Line); len(got) != 1 || got[0].Text != "# hdr" {
		t.Errorf("header comment %v", got)
	}
}

func TestParseNoComments(t *testing.T) {
	res := mustParse(t, "a: 1 # x\n", ParseComments(false))
	if res.Comments.Len() != 0 {
		t.Errorf("expected no comments, got %d", res.Comments.Len())
	}
}
