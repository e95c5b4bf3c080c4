package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/signadot/yedit/doc"
	"github.com/signadot/yedit/format"
	"github.com/signadot/yedit/libdiff"
	"github.com/signadot/yedit/parse"

	"github.com/klauspost/compress/gzip"
	"github.com/scott-cotton/cli"
)

// yamlFile is a document loaded from a path, or from stdin for "-".
type yamlFile struct {
	path string
	kind format.Kind
	mode os.FileMode
	doc  *doc.Document
	fc   format.Config
	// saved is the text last read or written.
	saved []byte
}

func loadFile(cfg *MainConfig, cc *cli.Context, path string) (*yamlFile, error) {
	fc, err := cfg.formatConfig()
	if err != nil {
		return nil, err
	}
	f := &yamlFile{path: path, kind: format.YAMLKind, mode: 0644, fc: fc}
	var r io.Reader
	if path == "-" {
		r = cc.In
	} else {
		f.kind, err = format.KindOf(path)
		if err != nil {
			return nil, err
		}
		h, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer h.Close()
		if st, err := h.Stat(); err == nil {
			f.mode = st.Mode().Perm()
		}
		r = h
	}
	d, err := readAll(r, f.kind)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	name := path
	if path == "-" {
		name = "<stdin>"
	}
	f.doc, err = doc.Load(d, parse.WithFilename(name), parse.WithMaxSize(fc.MaxSize))
	if err != nil {
		return nil, err
	}
	f.saved = d
	return f, nil
}

func readAll(r io.Reader, kind format.Kind) ([]byte, error) {
	if !kind.IsGzip() {
		return io.ReadAll(r)
	}
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// render serializes the document.
func (f *yamlFile) render() ([]byte, error) {
	res, err := f.doc.Serialize(f.fc)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// save writes the document back to its file, or to cc.Out for stdin.
// With -n the line diff of the save is printed instead.
func (f *yamlFile) save(cfg *MainConfig, cc *cli.Context) error {
	out, err := f.render()
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}
	if cfg.DryRun {
		_, err := libdiff.Unified(cc.Out, f.path, f.path, f.saved, out,
			libdiff.Colors(isTerminal(cc.Out)))
		return err
	}
	if f.path == "-" {
		_, err := cc.Out.Write(out)
		return err
	}
	if bytes.Equal(out, f.saved) {
		return nil
	}
	if err := writeAtomic(f.path, out, f.kind, f.mode); err != nil {
		return err
	}
	f.saved = out
	return f.doc.Rebase(out)
}

// writeAtomic replaces path by d through a temporary file in the same
// directory, so that readers see either the old or the new contents.
func writeAtomic(path string, d []byte, kind format.Kind, mode os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	var w io.Writer = tmp
	var zw *gzip.Writer
	if kind.IsGzip() {
		zw = gzip.NewWriter(tmp)
		w = zw
	}
	if _, err := w.Write(d); err != nil {
		tmp.Close()
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
