package main

import (
	"bytes"
	"fmt"

	"github.com/scott-cotton/cli"
)

func yfmt(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	changed := 0
	for _, path := range args {
		yf, err := loadFile(cfg.MainConfig, cc, path)
		if err != nil {
			return err
		}
		if !cfg.Check {
			if err := yf.save(cfg.MainConfig, cc); err != nil {
				return err
			}
			continue
		}
		out, err := yf.render()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !bytes.Equal(out, yf.saved) {
			fmt.Fprintln(cc.Out, path)
			changed++
		}
	}
	if changed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
