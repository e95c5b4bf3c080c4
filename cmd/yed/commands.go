package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file for commands printing to stdout",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "yed").
		WithSynopsis("yed [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return yedMain(cfg, cc, args)
		}).
		WithSubs(
			FmtCommand(cfg),
			GetCommand(cfg),
			SetCommand(cfg),
			RmCommand(cfg),
			MvCommand(cfg),
			InsCommand(cfg),
			CommentCommand(cfg),
			AnchorsCommand(cfg),
			PlanCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			ViewCommand(cfg),
			EditCommand(cfg))
}

const mainDescription = `yed edits YAML files in place, keeping the text of everything
an edit does not touch: comments, quoting, indentation and block scalar
styles survive.

Paths address values from the document root: 'spec.ports[0].name',
'$.a.b' or '[1].kind' in a file of several documents. Files ending in
.gz are read and written gzip compressed.

Formatting of new content is configured by a .yedit.yaml file in the
current directory:

  indent: 2
  preserve: true
  strict: false
  maxSize: 104857600`

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithSynopsis("fmt [-check] files").
		WithDescription("round trip files; with -fresh reformat them").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return yfmt(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-raw] <path> [files]").
		WithDescription("print the value at path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func SetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Set, "set").
		WithAliases("s").
		WithSynopsis("set [-x|-s] <path> <value> file").
		WithDescription(setDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return set(cfg, cc, args)
		})
}

const setDescription = `set replaces the value at path.

The value is read as YAML unless -s is given. With -x it is an expression
evaluated with 'doc' bound to the document, 'old' to the current value and
'env' to the process environment, as in

  yed set -x replicas 'old * 2' deploy.yaml`

func RmCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RmConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Rm, "rm").
		WithSynopsis("rm <path> file").
		WithDescription("remove the value at path with its key and comments").
		WithRun(func(cc *cli.Context, args []string) error {
			return rm(cfg, cc, args)
		})
}

func MvCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MvConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Mv, "mv").
		WithSynopsis("mv <path> <newkey> file").
		WithDescription("rename the key of the mapping entry at path").
		WithRun(func(cc *cli.Context, args []string) error {
			return mv(cfg, cc, args)
		})
}

func InsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Ins, "ins").
		WithAliases("i").
		WithSynopsis("ins [-s] <path> <key|index|-> <value> file").
		WithDescription("insert a value into the mapping or sequence at path; '-' appends").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ins(cfg, cc, args)
		})
}

func CommentCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CommentConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Comment, "comment").
		WithAliases("c").
		WithSynopsis("comment [-d] <path> <above|line|below|standalone|end> [text] file").
		WithDescription("attach a comment to the value at path, or remove comments with -d").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return yComment(cfg, cc, args)
		})
}

func AnchorsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AnchorsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Anchors, "anchors").
		WithAliases("a").
		WithSynopsis("anchors [files]").
		WithDescription("list anchors with their aliases, and dangling aliases").
		WithRun(func(cc *cli.Context, args []string) error {
			return anchors(cfg, cc, args)
		})
}

func PlanCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PlanConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Plan, "plan").
		WithSynopsis("plan [-a] <edit command...>").
		WithDescription("show how saving an edit would write each node, without saving").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return plan(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-r] [-u] a b").
		WithDescription("compare two YAML files; exits 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch [-doc n] <json-patch-file> file").
		WithDescription("apply an RFC 6902 JSON patch, given as JSON or YAML, as edits of file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [-c] [files]").
		WithDescription("view YAML files formatted, in color on a terminal").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func EditCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Edit, "edit").
		WithAliases("e").
		WithSynopsis("edit file").
		WithDescription(editDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return edit(cfg, cc, args)
		})
}

const editDescription = `edit starts an interactive session on file. Commands:

  get <path>                 print a value
  set <path> <value>         replace a value
  rm <path>                  remove a value
  mv <path> <newkey>         rename a key
  ins <path> <key> <value>   insert into a collection ('-' appends)
  show                       print the document as it would be saved
  plan                       show the save plan
  diff                       show the changes since the last save
  save                       write the file
  quit                       leave, discarding unsaved changes`
