package main

import (
	"fmt"
	"io"

	"github.com/signadot/yedit/doc"
	"github.com/signadot/yedit/splice"

	"github.com/scott-cotton/cli"
)

func plan(cfg *PlanConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Plan.Parse(cc, args)
	if err != nil {
		cfg.Plan.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: plan requires a file", cli.ErrUsage)
	}
	file := args[len(args)-1]
	yf, err := loadFile(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	if words := args[:len(args)-1]; len(words) > 0 {
		if err := applyEdit(yf.doc, words); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return printPlan(cc.Out, yf.doc, cfg.All)
}

// printPlan lists the nodes of d with their save tier, followed by the
// fallback sections.
func printPlan(w io.Writer, d *doc.Document, all bool) error {
	p := d.Plan()
	for _, n := range p.Nodes() {
		t := p.Tier(n)
		if t == splice.Verbatim && !all {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-11s %s\n", t, n.Path()); err != nil {
			return err
		}
	}
	for _, sec := range p.FallbackSections() {
		if _, err := fmt.Fprintf(w, "fallback: %s is rewritten with aliases expanded\n", sec.Path()); err != nil {
			return err
		}
	}
	return nil
}
