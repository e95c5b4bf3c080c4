package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/yedit/format"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.yaml", "x.yaml.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			kind, err := format.KindOf(path)
			if err != nil {
				t.Fatal(err)
			}
			want := []byte("a: 1 # one\n")
			if err := writeAtomic(path, want, kind, 0600); err != nil {
				t.Fatal(err)
			}
			st, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if st.Mode().Perm() != 0600 {
				t.Errorf("mode %v", st.Mode())
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			got, err := readAll(f, kind)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("got %q", got)
			}
		})
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("temporary files left: %v", entries)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.yml")
	if err := os.WriteFile(path, []byte("a: 1 # one\nb: [x,  y]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &MainConfig{}
	yf, err := loadFile(cfg, nil, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := applyEdit(yf.doc, []string{"set", "a", "2"}); err != nil {
		t.Fatal(err)
	}
	if err := yf.save(cfg, nil); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "a: 2 # one\nb: [x,  y]\n"
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
	if n, err := lookup(yf.doc, "a"); err != nil || !n.SpanValid() {
		t.Errorf("document not rebased: %v", err)
	}
}
