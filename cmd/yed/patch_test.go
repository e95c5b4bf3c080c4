package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointerTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/", []string{""}},
		{"/a/0", []string{"a", "0"}},
		{"/a~1b/~01", []string{"a/b", "~1"}},
	}
	for _, tc := range tests {
		got, err := pointerTokens(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.in, diff)
		}
	}
	if _, err := pointerTokens("a"); err == nil {
		t.Error("relative pointer accepted")
	}
}

func TestApplyPatch(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		patch string
		want  string
	}{
		{
			name:  "replace keeps comment",
			src:   "a: 1 # one\nb: 2\n",
			patch: `[{"op": "replace", "path": "/a", "value": 2}]`,
			want:  "a: 2 # one\nb: 2\n",
		},
		{
			name:  "add as yaml",
			src:   "a: 1\nb: 2\n",
			patch: "- op: add\n  path: /e\n  value: 4\n",
			want:  "a: 1\nb: 2\ne: 4\n",
		},
		{
			name:  "add existing replaces",
			src:   "a: 1\nb: 2\n",
			patch: `[{"op": "add", "path": "/b", "value": 3}]`,
			want:  "a: 1\nb: 3\n",
		},
		{
			name:  "remove",
			src:   "a: 1\nb: 2\n",
			patch: `[{"op": "remove", "path": "/a"}]`,
			want:  "b: 2\n",
		},
		{
			name:  "insert item",
			src:   "- a\n- b\n",
			patch: `[{"op": "add", "path": "/0", "value": "z"}]`,
			want:  "- z\n- a\n- b\n",
		},
		{
			name:  "add object",
			src:   "a: 1\n",
			patch: `[{"op": "add", "path": "/b", "value": {"c": "d", "e": ["f"]}}]`,
			want:  "a: 1\nb:\n  c: d\n  e:\n    - f\n",
		},
		{
			name:  "string needing quotes",
			src:   "a: 1\n",
			patch: `[{"op": "replace", "path": "/a", "value": "true"}]`,
			want:  "a: \"true\"\n",
		},
		{
			name:  "test passes",
			src:   "a: 1\nb: 2\n",
			patch: `[{"op": "test", "path": "/a", "value": 1}, {"op": "remove", "path": "/a"}]`,
			want:  "b: 2\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ops, err := decodePatch([]byte(tc.patch))
			if err != nil {
				t.Fatal(err)
			}
			d := loadDoc(t, tc.src)
			if err := applyPatch(d, 0, ops); err != nil {
				t.Fatal(err)
			}
			if got := render(t, d); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestApplyPatchErrors(t *testing.T) {
	patches := []string{
		`[{"op": "test", "path": "/a", "value": 2}]`,
		`[{"op": "remove", "path": "/nothere"}]`,
		`[{"op": "replace", "path": "/a"}]`,
		`[{"op": "add", "path": "/a/x", "value": 1}]`,
	}
	for _, p := range patches {
		ops, err := decodePatch([]byte(p))
		if err != nil {
			t.Fatal(err)
		}
		d := loadDoc(t, "a: 1\nb: 2\n")
		if err := applyPatch(d, 0, ops); !errors.Is(err, ErrPatch) {
			t.Errorf("%s: got %v", p, err)
		}
	}
	ops, _ := decodePatch([]byte(`[]`))
	if err := applyPatch(loadDoc(t, "a: 1\n"), 1, ops); !errors.Is(err, ErrPatch) {
		t.Errorf("document index: got %v", err)
	}
}
