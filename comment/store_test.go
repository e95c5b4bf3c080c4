package comment

import (
	"errors"
	"testing"

	"github.com/signadot/yedit/ir"
)

func TestStore(t *testing.T) {
	s := New()
	n := ir.FromInt(1)
	if _, err := s.Attach(n, Above, "about n"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Attach(n, Line, "# trailing"); err != nil {
		t.Fatal(err)
	}
	cs := s.For(n)
	if len(cs) != 2 || cs[0].Text != "# about n" || cs[1].Text != "# trailing" {
		t.Fatalf("got %v", cs)
	}
	if got := s.At(n, Line); len(got) != 1 || got[0].Position != Line {
		t.Errorf("At gave %v", got)
	}
	src := &Comment{Position: Below, Text: "# parsed", Src: &Range{Start: 3, End: 11}}
	s.Add(n, src)
	if got := s.DetachAt(n, Below); len(got) != 1 || got[0] != src {
		t.Errorf("DetachAt gave %v", got)
	}
	if d := s.Dropped(); len(d) != 1 || d[0] != src {
		t.Errorf("dropped %v", d)
	}
	s.Detach(n)
	if s.Len() != 0 {
		t.Errorf("detach left %d", s.Len())
	}
	if len(s.Dropped()) != 1 {
		t.Errorf("added comments are not recorded as dropped")
	}
}

func TestStoreEnd(t *testing.T) {
	s := New()
	seq := ir.FromSlice([]*ir.Node{ir.FromInt(1)})
	end := s.End(seq)
	if s.End(seq) != end {
		t.Errorf("end marker should be stable")
	}
	if c, ok := s.IsEnd(end); !ok || c != seq {
		t.Errorf("IsEnd gave %v %t", c, ok)
	}
	if _, ok := s.IsEnd(seq.Values[0]); ok {
		t.Errorf("element is not an end marker")
	}
	if _, err := s.Attach(end, Above, "x"); !errors.Is(err, ErrComment) {
		t.Errorf("above on end marker: %v", err)
	}
	if _, err := s.Attach(end, Standalone, "x"); err != nil {
		t.Errorf("standalone on end marker: %v", err)
	}
	s.Forget(seq)
	if s.Len() != 0 {
		t.Errorf("forget left %d", s.Len())
	}
	if s.End(seq) == end {
		t.Errorf("forget should drop end markers")
	}
}

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{
		"x":       "# x",
		"#x":      "#x",
		"# x  ":   "# x",
		"":        "# ",
		"## deep": "## deep",
	} {
		got, err := Normalize(in)
		if err != nil || got != want {
			t.Errorf("%q: got %q %v", in, got, err)
		}
	}
	if _, err := Normalize("a\nb"); !errors.Is(err, ErrComment) {
		t.Errorf("multi-line: %v", err)
	}
}
