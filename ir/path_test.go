package ir

import (
	"errors"
	"testing"
)

func pathDoc() *Node {
	return FromKeyVals([]KeyVal{
		{Key: "a", Val: FromKeyVals([]KeyVal{
			{Key: "b", Val: FromSlice([]*Node{FromInt(1), FromInt(2)})},
		})},
		{Key: "x.y", Val: FromString("dotted")},
	})
}

func TestPathRoundTrip(t *testing.T) {
	d := pathDoc()
	b1 := d.Values[0].Values[0].Values[1]
	if got := b1.Path(); got != "$.a.b[1]" {
		t.Errorf("path %q", got)
	}
	if got := d.Values[1].Path(); got != "$.'x.y'" {
		t.Errorf("quoted path %q", got)
	}
	for _, n := range []*Node{b1, d.Values[1], d} {
		got, err := d.GetPath(n.Path())
		if err != nil {
			t.Fatalf("get %s: %v", n.Path(), err)
		}
		if got != n {
			t.Errorf("get %s returned another node", n.Path())
		}
	}
}

func TestGetPathErrors(t *testing.T) {
	d := pathDoc()
	cases := []struct {
		path string
		is   error
	}{
		{"a", ErrPath},
		{"$.a.c", ErrNotFound},
		{"$.a.b[5]", ErrNotFound},
		{"$.a[0]", ErrPath},
		{"$.a.b[*]", ErrPath},
	}
	for _, c := range cases {
		_, err := d.GetPath(c.path)
		if !errors.Is(err, c.is) {
			t.Errorf("%s: got %v want %v", c.path, err, c.is)
		}
	}
}

func TestListPath(t *testing.T) {
	d := pathDoc()
	got, err := d.ListPath(nil, "$.a.b[*]")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d nodes", len(got))
	}
}
