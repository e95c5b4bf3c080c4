package main

import (
	"fmt"

	"github.com/signadot/yedit/doc"

	"github.com/scott-cotton/cli"
)

// editFile loads path, applies f and saves the result.
func editFile(cfg *MainConfig, cc *cli.Context, path string, f func(*doc.Document) error) error {
	yf, err := loadFile(cfg, cc, path)
	if err != nil {
		return err
	}
	if err := f(yf.doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return yf.save(cfg, cc)
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: set requires a path, a value and a file", cli.ErrUsage)
	}
	if cfg.Expr && cfg.String {
		return fmt.Errorf("%w: only one of -x, -s may be specified", cli.ErrUsage)
	}
	mode := yamlValue
	switch {
	case cfg.Expr:
		mode = exprValue
	case cfg.String:
		mode = stringValue
	}
	return editFile(cfg.MainConfig, cc, args[2], func(d *doc.Document) error {
		return setPath(d, args[0], args[1], mode)
	})
}

func rm(cfg *RmConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rm.Parse(cc, args)
	if err != nil {
		cfg.Rm.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: rm requires a path and a file", cli.ErrUsage)
	}
	return editFile(cfg.MainConfig, cc, args[1], func(d *doc.Document) error {
		return removePath(d, args[0])
	})
}

func mv(cfg *MvConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Mv.Parse(cc, args)
	if err != nil {
		cfg.Mv.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: mv requires a path, a new key and a file", cli.ErrUsage)
	}
	return editFile(cfg.MainConfig, cc, args[2], func(d *doc.Document) error {
		return renamePath(d, args[0], args[1])
	})
}

func ins(cfg *InsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Ins.Parse(cc, args)
	if err != nil {
		cfg.Ins.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 4 {
		return fmt.Errorf("%w: ins requires a path, a key or index, a value and a file", cli.ErrUsage)
	}
	mode := yamlValue
	if cfg.String {
		mode = stringValue
	}
	return editFile(cfg.MainConfig, cc, args[3], func(d *doc.Document) error {
		return insertPath(d, args[0], args[1], args[2], mode)
	})
}

func yComment(cfg *CommentConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Comment.Parse(cc, args)
	if err != nil {
		cfg.Comment.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	want := 4
	if cfg.Remove {
		want = 3
	}
	if len(args) != want {
		return fmt.Errorf("%w: comment requires a path, a position, a text unless -d, and a file", cli.ErrUsage)
	}
	text := ""
	if !cfg.Remove {
		text = args[2]
	}
	return editFile(cfg.MainConfig, cc, args[len(args)-1], func(d *doc.Document) error {
		return commentPath(d, args[0], args[1], text, cfg.Remove)
	})
}
