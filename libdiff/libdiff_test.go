package libdiff

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/yedit/ir"
)

func kvs(kv ...any) *ir.Node {
	var res []ir.KeyVal
	for i := 0; i < len(kv); i += 2 {
		res = append(res, ir.KeyVal{Key: kv[i].(string), Val: kv[i+1].(*ir.Node)})
	}
	return ir.FromKeyVals(res)
}

func ints(vs ...int64) *ir.Node {
	ns := make([]*ir.Node, len(vs))
	for i, v := range vs {
		ns[i] = ir.FromInt(v)
	}
	return ir.FromSlice(ns)
}

type change struct {
	Kind string
	Path string
}

func summarize(cs []Change) []change {
	res := make([]change, len(cs))
	for i := range cs {
		res[i] = change{cs[i].Kind.String(), cs[i].Path()}
	}
	return res
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to *ir.Node
		want     []change
	}{
		{
			name: "equal",
			from: kvs("a", ir.FromInt(1)),
			to:   kvs("a", ir.FromInt(1)),
		},
		{
			name: "object",
			from: kvs("a", ir.FromInt(1), "b", ir.FromString("x"), "c", ir.Null()),
			to:   kvs("a", ir.FromInt(2), "c", ir.Null(), "d", ir.FromBool(true)),
			want: []change{
				{"changed", "$.a"},
				{"removed", "$.b"},
				{"added", "$.d"},
			},
		},
		{
			name: "array insert",
			from: ints(1, 2, 3),
			to:   ints(1, 5, 2, 3),
			want: []change{{"added", "$[1]"}},
		},
		{
			name: "array delete",
			from: ints(1, 2, 3),
			to:   ints(1, 3),
			want: []change{{"removed", "$[1]"}},
		},
		{
			name: "array replace",
			from: ints(1, 2, 3),
			to:   ints(1, 4, 3),
			want: []change{{"changed", "$[1]"}},
		},
		{
			name: "nested",
			from: kvs("l", ir.FromSlice([]*ir.Node{kvs("x", ir.FromInt(1))})),
			to:   kvs("l", ir.FromSlice([]*ir.Node{kvs("x", ir.FromInt(2))})),
			want: []change{{"changed", "$.l[0].x"}},
		},
		{
			name: "type change",
			from: kvs("a", ints(1)),
			to:   kvs("a", ir.FromString("s")),
			want: []change{{"changed", "$.a"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := summarize(Diff(tc.from, tc.to))
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("-want +got:\n%s", diff)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	from := kvs("a", ir.FromInt(1))
	to := kvs("a", ir.FromInt(1), "b", ir.FromInt(2))
	rev := Reverse(Diff(from, to))
	if diff := cmp.Diff([]change{{"removed", "$.b"}}, summarize(rev)); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
}

func TestRegions(t *testing.T) {
	from := []byte("a: 1\nb: 22\nc: 3\n")
	to := []byte("a: 1\nb: 7\nc: 3\n")
	rs := Regions(from, to, 1)
	if len(rs) != 1 {
		t.Fatalf("regions %+v", rs)
	}
	b := bytes.Index(from, []byte("22"))
	if !Within(rs, b, b+2) {
		t.Errorf("region %+v outside [%d,%d)", rs[0], b, b+2)
	}
	if Within(rs, 0, b) {
		t.Errorf("region %+v should not be within the first line", rs[0])
	}
	if rs := Regions(from, from, 1); len(rs) != 0 {
		t.Errorf("no change gave %+v", rs)
	}
}

func TestLines(t *testing.T) {
	from := []byte("a\nb\nc\n")
	to := []byte("a\nx\nc\n")
	want := []Line{
		{Op: Equal, Text: "a", Old: 1, New: 1},
		{Op: Delete, Text: "b", Old: 2},
		{Op: Insert, Text: "x", New: 2},
		{Op: Equal, Text: "c", Old: 3, New: 3},
	}
	if diff := cmp.Diff(want, Lines(from, to)); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, ChangedLines(from, to)); diff != "" {
		t.Errorf("changed lines -want +got:\n%s", diff)
	}
}

func TestUnified(t *testing.T) {
	from := []byte("a\nb\nc\n")
	to := []byte("a\nx\nc\n")
	var buf bytes.Buffer
	differs, err := Unified(&buf, "old", "new", from, to, Context(1))
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Fatal("should differ")
	}
	want := "--- old\n+++ new\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	buf.Reset()
	if differs, _ := Unified(&buf, "old", "new", from, from); differs || buf.Len() != 0 {
		t.Errorf("equal inputs gave %q", buf.String())
	}
}
