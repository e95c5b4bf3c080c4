package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/signadot/yedit/ir"

	"github.com/scott-cotton/cli"
)

func anchors(cfg *AnchorsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Anchors.Parse(cc, args)
	if err != nil {
		cfg.Anchors.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		yf, err := loadFile(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			fmt.Fprintf(cc.Out, "%s:\n", file)
		}
		if err := listAnchors(cc.Out, yf); err != nil {
			return err
		}
	}
	return nil
}

func listAnchors(w io.Writer, yf *yamlFile) error {
	reg := yf.doc.Anchors
	for _, def := range reg.Definitions() {
		aliases := reg.Aliases(def)
		if _, err := fmt.Fprintf(w, "&%s %s refs=%d\n", def.Anchor, def.Path(), len(aliases)); err != nil {
			return err
		}
		for _, a := range aliases {
			if _, err := fmt.Fprintf(w, "  *%s %s\n", a.Alias, a.Path()); err != nil {
				return err
			}
		}
	}
	dangling := reg.Dangling()
	slices.SortFunc(dangling, func(a, b *ir.Node) int {
		return cmp.Compare(offset(a), offset(b))
	})
	for _, a := range dangling {
		if _, err := fmt.Fprintf(w, "dangling *%s %s\n", a.Alias, a.Path()); err != nil {
			return err
		}
	}
	return nil
}

func offset(n *ir.Node) int {
	if o := n.Origin(); o != nil {
		return o.Start
	}
	return -1
}
