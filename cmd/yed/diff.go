package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/ir"
	"github.com/signadot/yedit/libdiff"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := loadFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	var differ bool
	if cfg.Lines {
		if cfg.Reverse {
			a, b = b, a
		}
		differ, err = libdiff.Unified(cc.Out, a.path, b.path, a.saved, b.saved,
			libdiff.Context(cfg.Context), libdiff.Colors(isTerminal(cc.Out)))
	} else {
		differ, err = diffValues(cfg, cc.Out, a, b)
	}
	if err != nil {
		return err
	}
	if differ {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffValues(cfg *DiffConfig, w io.Writer, a, b *yamlFile) (bool, error) {
	d := &libdiff.Differ{
		From: a.doc.Anchors.Resolver(),
		To:   b.doc.Anchors.Resolver(),
	}
	changes := d.Diff(a.doc.Root, b.doc.Root)
	if cfg.Reverse {
		changes = libdiff.Reverse(changes)
	}
	opts := cfg.encOpts(w)
	for _, c := range changes {
		if _, err := fmt.Fprintf(w, "%s %s\n", c.Kind.Mark(), c.Path()); err != nil {
			return false, err
		}
		if c.Kind != libdiff.Added {
			if err := encodeIndented(w, "  - ", c.From, opts); err != nil {
				return false, err
			}
		}
		if c.Kind != libdiff.Removed {
			if err := encodeIndented(w, "  + ", c.To, opts); err != nil {
				return false, err
			}
		}
	}
	return len(changes) > 0, nil
}

// encodeIndented writes n fresh with every line prefixed.
func encodeIndented(w io.Writer, prefix string, n *ir.Node, opts []encode.EncodeOption) error {
	var buf strings.Builder
	if err := encode.Encode(n, &buf, opts...); err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, line); err != nil {
			return err
		}
	}
	return nil
}
