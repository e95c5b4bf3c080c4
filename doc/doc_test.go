package doc

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/yedit/anchor"
	"github.com/signadot/yedit/comment"
	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/splice"
)

func load(t *testing.T, src string) *Document {
	t.Helper()
	d, err := Load([]byte(src))
	if err != nil {
		t.Fatalf("load %q: %v", src, err)
	}
	return d
}

func save(t *testing.T, d *Document) string {
	t.Helper()
	res, err := d.Serialize(format.NewConfig())
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return string(res.Output)
}

func get(t *testing.T, d *Document, path string) *ir.Node {
	t.Helper()
	n, err := d.Get(path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return n
}

func TestRoundTrip(t *testing.T) {
	srcs := []string{
		"a: 1\n",
		"a: 1",
		"# head\na: 1 # one\n\nb:\n  - x\n  - y\n",
		"---\na: 1\n---\nb: 2\n",
		"a: &x {k: v}\nb: *x\n",
		"s: |\n  text\n",
		"list: [1,   2, 3]\nquoted: 'single'   # odd spacing\n",
	}
	for _, src := range srcs {
		d := load(t, src)
		if got := save(t, d); got != src {
			t.Errorf("round trip of %q gave %q", src, got)
		}
		if c := d.Plan().Counts(); c[splice.Verbatim] == 0 || len(c) != 1 {
			t.Errorf("plan of %q: %v", src, c)
		}
	}
}

func TestSetValueIsLocal(t *testing.T) {
	src := "a: 1\nb: 2 # two\nc:\n  d: 3\n"
	d := load(t, src)
	b := get(t, d, "$.b")
	if err := d.SetValue(b, ir.FromInt(5)); err != nil {
		t.Fatal(err)
	}
	want := "a: 1\nb: 5 # two\nc:\n  d: 3\n"
	if got := save(t, d); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	p := d.Plan()
	if p.Tier(d.Root) != splice.Patch || p.Tier(b) != splice.Fresh || p.Tier(get(t, d, "$.c")) != splice.Verbatim {
		t.Errorf("tiers %v", p.Counts())
	}
}

func TestSetStringKeepsStyle(t *testing.T) {
	tests := []struct {
		src, path, val, want string
	}{
		{"desc: |\n  hi\n", "$.desc", "bye", "desc: |\n  bye\n"},
		{"q: 'x'\n", "$.q", "y", "q: 'y'\n"},
		{"q: \"x\"\n", "$.q", "y", "q: \"y\"\n"},
	}
	for _, tc := range tests {
		d := load(t, tc.src)
		if err := d.SetString(get(t, d, tc.path), tc.val); err != nil {
			t.Fatal(err)
		}
		if got := save(t, d); got != tc.want {
			t.Errorf("%q: got %q want %q", tc.src, got, tc.want)
		}
	}
}

func TestChomp(t *testing.T) {
	tests := []struct{ old, s, want string }{
		{"a", "b\n", "b"},
		{"a\n", "b", "b\n"},
		{"a\n", "b\n\n", "b\n"},
		{"a\n\n", "b\n\n\n", "b\n\n\n"},
		{"a\n", "", ""},
	}
	for _, tc := range tests {
		if got := chomp(tc.old, tc.s); got != tc.want {
			t.Errorf("chomp(%q, %q) = %q, want %q", tc.old, tc.s, got, tc.want)
		}
	}
}

func TestAliasIsReadOnly(t *testing.T) {
	d := load(t, "base: &b {x: 1}\nchild: *b\n")
	err := d.SetValue(get(t, d, "$.child"), ir.FromInt(1))
	if !errors.Is(err, ErrEditConstraint) {
		t.Errorf("expected edit constraint, got %v", err)
	}
}

func TestDeleteReferencedAnchor(t *testing.T) {
	src := "base: &b {x: 1}\nchild: *b\n"
	d := load(t, src)
	base := get(t, d, "$.base")
	if err := d.Delete(base); !errors.Is(err, anchor.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if base.Parent != d.Root || len(d.Root.Values) != 2 {
		t.Errorf("tree changed")
	}
	if got := save(t, d); got != src {
		t.Errorf("got %q", got)
	}
	// the alias goes first, then the anchor is free
	if err := d.Delete(get(t, d, "$.child")); err != nil {
		t.Fatal(err)
	}
	if err := d.Delete(base); err != nil {
		t.Fatal(err)
	}
	if got := save(t, d); got != "{}\n" {
		t.Errorf("got %q", got)
	}
}

func TestFallback(t *testing.T) {
	d := load(t, "base: &b {x: 1}\nchild: *b\n")
	if err := d.Delete(get(t, d, "$.base.x")); err != nil {
		t.Fatal(err)
	}
	p := d.Plan()
	if len(p.FallbackSections()) != 1 || p.Tier(d.Root) != splice.Fallback {
		t.Fatalf("plan %v", p.Counts())
	}
	got := save(t, d)
	if got != "base: {}\nchild: {}\n" {
		t.Errorf("got %q", got)
	}
	if err := d.Rebase([]byte(got)); err != nil {
		t.Fatal(err)
	}
	if c := get(t, d, "$.child"); c.Type != ir.ObjectType || len(c.Values) != 0 {
		t.Errorf("child %v", c.Type)
	}
}

func TestInsertAlias(t *testing.T) {
	d := load(t, "a: &x 1\nc:\n  d: 2\n")
	if _, err := d.InsertChild(get(t, d, "$.c"), AtKey("e"), ir.FromAlias("x")); err != nil {
		t.Fatal(err)
	}
	p := d.Plan()
	if len(p.FallbackSections()) != 0 {
		t.Fatalf("fallback sections %d", len(p.FallbackSections()))
	}
	if tier := p.Tier(get(t, d, "$.c")); tier != splice.Restructure {
		t.Errorf("tier %s", tier)
	}
	got := save(t, d)
	if want := "a: &x 1\nc:\n  d: 2\n  e: *x\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if err := d.Rebase([]byte(got)); err != nil {
		t.Fatal(err)
	}
	if n := d.Anchors.RefCount("x"); n != 1 {
		t.Errorf("refs %d", n)
	}
}

func TestDanglingAlias(t *testing.T) {
	d := load(t, "a: *nowhere\nb: 1\n")
	if !d.Anchors.IsDangling(get(t, d, "$.a")) {
		t.Fatal("alias should dangle")
	}
	if err := d.SetValue(get(t, d, "$.b"), ir.FromInt(2)); err != nil {
		t.Fatal(err)
	}
	res, err := d.Serialize(format.NewConfig(format.WithStrict(true)))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Output); got != "a: *nowhere\nb: 2\n" {
		t.Errorf("got %q", got)
	}
}

func TestInsertChild(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
		key  Key
		val  *ir.Node
		want string
	}{
		{
			name: "append entry",
			src:  "a: 1\nb: 2\n",
			path: "$",
			key:  AtKey("e"),
			val:  ir.FromInt(4),
			want: "a: 1\nb: 2\ne: 4\n",
		},
		{
			name: "first item",
			src:  "- a\n- b\n",
			path: "$",
			key:  AtIndex(0),
			val:  ir.FromString("z"),
			want: "- z\n- a\n- b\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := load(t, tc.src)
			if _, err := d.InsertChild(get(t, d, tc.path), tc.key, tc.val); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, save(t, d)); diff != "" {
				t.Errorf("-want +got:\n%s", diff)
			}
		})
	}
}

func TestInsertChildErrors(t *testing.T) {
	d := load(t, "a: &x 1\nl: [1]\n")
	root := d.Root
	cases := []struct {
		name   string
		parent *ir.Node
		key    Key
		val    *ir.Node
		want   error
	}{
		{"existing key", root, AtKey("a"), ir.Null(), ErrEditConstraint},
		{"index into map", root, AtIndex(0), ir.Null(), ErrEditConstraint},
		{"key into seq", get(t, d, "$.l"), AtKey("k"), ir.Null(), ErrEditConstraint},
		{"out of range", get(t, d, "$.l"), AtIndex(5), ir.Null(), ErrEditConstraint},
		{"scalar parent", get(t, d, "$.a"), Append(), ir.Null(), ErrEditConstraint},
		{"duplicate anchor", root, AtKey("b"), ir.FromInt(2).WithAnchor("x"), anchor.ErrIntegrity},
	}
	for _, tc := range cases {
		if _, err := d.InsertChild(tc.parent, tc.key, tc.val); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v", tc.name, err)
		}
	}
	if got := save(t, d); got != "a: &x 1\nl: [1]\n" {
		t.Errorf("failed inserts changed output: %q", got)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		src, path, want string
	}{
		{"a: 1\nb: 2\n", "$.a", "b: 2\n"},
		{"# about a\na: 1\nb: 2\n", "$.a", "b: 2\n"},
		{"a: 1\n# about b\nb: 2\nc: 3\n", "$.b", "a: 1\nc: 3\n"},
	}
	for _, tc := range tests {
		d := load(t, tc.src)
		if err := d.Delete(get(t, d, tc.path)); err != nil {
			t.Fatal(err)
		}
		if got := save(t, d); got != tc.want {
			t.Errorf("%q: got %q want %q", tc.src, got, tc.want)
		}
	}
}

func TestDeleteRoot(t *testing.T) {
	d := load(t, "a: 1\n")
	if err := d.Delete(d.Root); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("got %v", err)
	}
}

func TestRenameKey(t *testing.T) {
	d := load(t, "a: 1\nb: 2\n")
	if err := d.RenameKey(d.Root, "a", "x"); err != nil {
		t.Fatal(err)
	}
	if err := d.RenameKey(d.Root, "x", "b"); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("rename onto existing key: %v", err)
	}
	if err := d.RenameKey(d.Root, "nope", "c"); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("rename of missing key: %v", err)
	}
	if got := save(t, d); got != "x: 1\nb: 2\n" {
		t.Errorf("got %q", got)
	}
	if n := get(t, d, "$.x"); n.Int64 == nil || *n.Int64 != 1 {
		t.Errorf("renamed value %v", n)
	}
}

func TestKeysAreNotValues(t *testing.T) {
	d := load(t, "a: 1\n")
	if err := d.SetValue(d.Root.Fields[0], ir.FromInt(2)); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("got %v", err)
	}
	other := load(t, "a: 1\n")
	if err := d.Delete(get(t, other, "$.a")); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("foreign node: %v", err)
	}
}

func TestDocuments(t *testing.T) {
	d := load(t, "a: 1\n")
	if _, err := d.InsertDocument(1, ir.FromKeyVals([]ir.KeyVal{{Key: "b", Val: ir.FromInt(2)}})); err != nil {
		t.Fatal(err)
	}
	if got := save(t, d); got != "a: 1\n---\nb: 2\n" {
		t.Errorf("got %q", got)
	}
	if _, err := d.InsertDocument(5, ir.Null()); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("out of range: %v", err)
	}

	d = load(t, "---\na: 1\n---\nb: 2\n")
	if err := d.Delete(d.Docs()[0]); err != nil {
		t.Fatal(err)
	}
	if got := save(t, d); got != "---\nb: 2\n" {
		t.Errorf("got %q", got)
	}
	if err := d.Delete(d.Root); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("last document: %v", err)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		name string
		path string
		pos  comment.Position
		text string
		want string
	}{
		{"above", "$.b", comment.Above, "hi", "a: 1\n# hi\nb: 2\n"},
		{"line", "$.a", comment.Line, "c", "a: 1 # c\nb: 2\n"},
		{"below", "$.a", comment.Below, "#c", "a: 1\n#c\nb: 2\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := load(t, "a: 1\nb: 2\n")
			if _, err := d.AttachComment(get(t, d, tc.path), tc.pos, tc.text); err != nil {
				t.Fatal(err)
			}
			if got := save(t, d); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestEndComment(t *testing.T) {
	d := load(t, "a: 1\nb: 2\n")
	end, err := d.EndOf(d.Root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.AttachComment(end, comment.Line, "x"); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("line comment on end: %v", err)
	}
	if _, err := d.AttachComment(end, comment.Standalone, "end"); err != nil {
		t.Fatal(err)
	}
	if got := save(t, d); got != "a: 1\nb: 2\n\n# end\n" {
		t.Errorf("got %q", got)
	}
}

func TestDetachComment(t *testing.T) {
	d := load(t, "a: 1 # c\nb: 2\n")
	cs, err := d.DetachComment(get(t, d, "$.a"), comment.Line)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0].Text != "# c" {
		t.Fatalf("detached %v", cs)
	}
	if got := save(t, d); got != "a: 1\nb: 2\n" {
		t.Errorf("got %q", got)
	}
}

func TestCommentConstraints(t *testing.T) {
	d := load(t, "f: [1, 2]\nm:\n  k: v\n")
	if _, err := d.AttachComment(get(t, d, "$.f[0]"), comment.Above, "x"); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("comment in flow: %v", err)
	}
	if _, err := d.AttachComment(d.Root, comment.Line, "x"); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("line comment on root mapping: %v", err)
	}
	if _, err := d.AttachComment(get(t, d, "$.m"), comment.Line, "two\nlines"); err == nil {
		t.Error("multi-line comment accepted")
	}
}

func TestRebase(t *testing.T) {
	d := load(t, "a: 1\nb: [x]\n")
	if _, err := d.InsertChild(get(t, d, "$.b"), Append(), ir.FromString("y")); err != nil {
		t.Fatal(err)
	}
	out := save(t, d)
	if !strings.HasPrefix(out, "a: 1\n") {
		t.Errorf("got %q", out)
	}
	if err := d.Rebase([]byte(out)); err != nil {
		t.Fatal(err)
	}
	if c := d.Plan().Counts(); len(c) != 1 || c[splice.Verbatim] == 0 {
		t.Errorf("plan after rebase %v", c)
	}
	if got := get(t, d, "$.b[1]").String; got != "y" {
		t.Errorf("b[1] = %q", got)
	}
	if got := save(t, d); got != out {
		t.Errorf("second save %q differs from %q", got, out)
	}
}

func TestNew(t *testing.T) {
	d, err := New(ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromSlice([]*ir.Node{ir.FromInt(1)})}}))
	if err != nil {
		t.Fatal(err)
	}
	if got := save(t, d); got != "a:\n  - 1\n" {
		t.Errorf("got %q", got)
	}
	if _, err := New(ir.FromKeyVals([]ir.KeyVal{{Key: "x", Val: ir.FromDocs([]*ir.Node{ir.Null()})}})); !errors.Is(err, ErrEditConstraint) {
		t.Errorf("nested documents: %v", err)
	}
}
