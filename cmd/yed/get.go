package main

import (
	"fmt"

	"github.com/signadot/yedit/encode"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	i := 0
	for _, file := range files {
		yf, err := loadFile(cfg.MainConfig, cc, file)
		if err != nil {
			return err
		}
		nodes, err := lookupAll(yf.doc, path)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
		for _, n := range nodes {
			if i > 0 {
				if _, err := cc.Out.Write([]byte("---\n")); err != nil {
					return err
				}
			}
			i++
			if o := n.Origin(); cfg.Raw && o != nil {
				if _, err := fmt.Fprintf(cc.Out, "%s\n", o.Text(yf.doc.Source)); err != nil {
					return err
				}
				continue
			}
			opts := cfg.encOpts(cc.Out)
			opts = append(opts, encode.EncodeComments(yf.doc.Comments, nil))
			if err := encode.Encode(n, cc.Out, opts...); err != nil {
				return fmt.Errorf("error encoding result: %w", err)
			}
		}
	}
	return nil
}
