package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

const configFile = ".yedit.yaml"

type MainConfig struct {
	Color  bool   `cli:"name=color desc='encode with color'"`
	Indent int    `cli:"name=indent desc='indent of newly formatted block content'"`
	Strict bool   `cli:"name=strict desc='check saved output with a second YAML decoder'"`
	Fresh  bool   `cli:"name=fresh desc='reformat whole files instead of preserving their text'"`
	DryRun bool   `cli:"name=n desc='print the diff of a save instead of writing'"`
	Config string `cli:"name=config desc='configuration file (default .yedit.yaml when present)'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// formatConfig reads the configuration file and applies the flags.
func (cfg *MainConfig) formatConfig() (format.Config, error) {
	path := cfg.Config
	if path == "" {
		path = configFile
	}
	fc := format.NewConfig()
	d, err := os.ReadFile(path)
	switch {
	case err == nil:
		fc, err = format.ParseConfig(d)
		if err != nil {
			return fc, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && cfg.Config == "":
	default:
		return fc, err
	}
	if cfg.Indent > 0 {
		fc.Indent = cfg.Indent
	}
	if cfg.Strict {
		fc.Strict = true
	}
	if cfg.Fresh {
		fc.Preserve = false
	}
	return fc, fc.Validate()
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	indent := format.DefaultIndent
	if cfg.Indent > 0 {
		indent = cfg.Indent
	}
	res := []encode.EncodeOption{
		encode.Indent(indent),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	if isTerminal(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type FmtConfig struct {
	*MainConfig
	Check bool `cli:"name=check desc='only report files whose formatting would change'"`

	Fmt *cli.Command
}

type GetConfig struct {
	*MainConfig
	Raw bool `cli:"name=raw desc='print the source text of the value'"`

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig
	Expr   bool `cli:"name=x desc='evaluate the value as an expression'"`
	String bool `cli:"name=s desc='set the value as a string, keeping the style of a string value'"`

	Set *cli.Command
}

type RmConfig struct {
	*MainConfig

	Rm *cli.Command
}

type MvConfig struct {
	*MainConfig

	Mv *cli.Command
}

type InsConfig struct {
	*MainConfig
	String bool `cli:"name=s desc='insert the value as a string'"`

	Ins *cli.Command
}

type CommentConfig struct {
	*MainConfig
	Remove bool `cli:"name=d desc='remove the comments at the position instead'"`

	Comment *cli.Command
}

type AnchorsConfig struct {
	*MainConfig

	Anchors *cli.Command
}

type PlanConfig struct {
	*MainConfig
	All bool `cli:"name=a desc='list verbatim nodes too'"`

	Plan *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Lines   bool `cli:"name=u desc='line diff instead of value changes'"`
	Context int  `cli:"name=U desc='lines of context of a line diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Doc int `cli:"name=doc desc='index of the document to patch'"`

	Patch *cli.Command
}

type ViewConfig struct {
	*MainConfig
	Comments bool `cli:"name=c desc='include comments'"`

	View *cli.Command
}

type EditConfig struct {
	*MainConfig

	Edit *cli.Command
}
