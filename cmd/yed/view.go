package main

import (
	"fmt"
	"io"

	"github.com/signadot/yedit/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if err := viewFile(cfg, cc, cc.Out, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, w io.Writer, file string) error {
	yf, err := loadFile(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(w)
	if cfg.Comments {
		opts = append(opts, encode.EncodeComments(yf.doc.Comments, nil))
	}
	if err := encode.Encode(yf.doc.Root, w, opts...); err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	return nil
}
