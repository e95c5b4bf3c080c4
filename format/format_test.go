package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		path string
		want Kind
		err  bool
	}{
		{"a.yaml", YAMLKind, false},
		{"dir/A.YML", YAMLKind, false},
		{"a.yaml.gz", GzipYAMLKind, false},
		{"a.json", 0, true},
		{"a.gz", 0, true},
	}
	for _, c := range cases {
		got, err := KindOf(c.path)
		if c.err {
			if !errors.Is(err, ErrBadFormat) {
				t.Errorf("%s: expected ErrBadFormat, got %v", c.path, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("%s: got %v, %v", c.path, got, err)
		}
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{YAMLKind, GzipYAMLKind} {
		d, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(d); err != nil || back != k {
			t.Errorf("%v: got %v, %v", k, back, err)
		}
	}
	if GzipYAMLKind.Suffix() != ".yaml.gz" || !GzipYAMLKind.IsGzip() {
		t.Error("gzip kind")
	}
}

func TestConfig(t *testing.T) {
	c := NewConfig(WithIndent(4), WithStrict(true))
	want := Config{Indent: 4, Preserve: true, Strict: true, MaxSize: DefaultMaxSize}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if err := NewConfig(WithIndent(0)).Validate(); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte("indent: 3\npreserve: false\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Indent: 3, MaxSize: DefaultMaxSize}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if _, err := ParseConfig([]byte("indent: 12\n")); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	if _, err := ParseConfig([]byte("bogus: 1\n")); !errors.Is(err, ErrBadFormat) {
		t.Errorf("unknown field: expected ErrBadFormat, got %v", err)
	}
}
