package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/yedit/encode"
	"github.com/signadot/yedit/libdiff"

	"github.com/peterh/liner"
	"github.com/scott-cotton/cli"
)

const historyFile = ".yed_history"

func edit(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		cfg.Edit.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 || args[0] == "-" {
		return fmt.Errorf("%w: edit requires one file", cli.ErrUsage)
	}
	yf, err := loadFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &session{cfg: cfg, cc: cc, yf: yf}
	for {
		line, err := ln.Prompt("yed> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(cc.Out)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		quit, err := s.run(line)
		if err != nil {
			fmt.Fprintf(cc.Out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// session is an interactive edit of one file.
type session struct {
	cfg *EditConfig
	cc  *cli.Context
	yf  *yamlFile
}

func (s *session) run(line string) (bool, error) {
	words := splitEdit(line)
	out := s.cc.Out
	switch words[0] {
	case "quit", "q", "exit":
		return true, nil
	case "get":
		if len(words) != 2 {
			return false, fmt.Errorf("%w: get takes a path", cli.ErrUsage)
		}
		n, err := lookup(s.yf.doc, words[1])
		if err != nil {
			return false, err
		}
		opts := s.cfg.encOpts(out)
		opts = append(opts, encode.EncodeComments(s.yf.doc.Comments, nil))
		return false, encode.Encode(n, out, opts...)
	case "show":
		d, err := s.yf.render()
		if err != nil {
			return false, err
		}
		_, err = out.Write(d)
		return false, err
	case "plan":
		return false, printPlan(out, s.yf.doc, len(words) > 1 && words[1] == "-a")
	case "diff":
		d, err := s.yf.render()
		if err != nil {
			return false, err
		}
		_, err = libdiff.Unified(out, s.yf.path, s.yf.path, s.yf.saved, d,
			libdiff.Colors(isTerminal(out)))
		return false, err
	case "save":
		if err := s.yf.save(s.cfg.MainConfig, s.cc); err != nil {
			return false, err
		}
		if !s.cfg.DryRun {
			fmt.Fprintf(out, "wrote %s\n", s.yf.path)
		}
		return false, nil
	}
	return false, applyEdit(s.yf.doc, words)
}
