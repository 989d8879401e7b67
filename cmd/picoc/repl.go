// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-pico/frontend"
	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/parser"
)

const (
	replFile       = "<repl>"
	historyFile    = ".picoc_history"
	prompt         = "> "
	continuePrompt = "... "
)

var replCommand = cli.Command{
	Action:   replCmd,
	Name:     "repl",
	Usage:    "Start an interactive checking session",
	Category: "CHECK COMMANDS",
	Description: `The repl command reads statements line by line and checks each one in
the context of everything entered before. Lines that fail to parse are
discarded. Commands: :ast prints the session, :reset clears it, :quit leaves.`,
}

// session accumulates the statements accepted so far.
type session struct {
	engine  *frontend.Engine
	src     strings.Builder
	pending []string // lines of an unfinished block
	depth   int      // brace depth of pending
}

func newSession(engine *frontend.Engine) *session {
	return &session{engine: engine}
}

// prompt returns the prompt for the next line.
func (s *session) prompt() string {
	if len(s.pending) > 0 {
		return continuePrompt
	}
	return prompt
}

// eval handles one input line. It returns false when the session should end.
func (s *session) eval(w io.Writer, line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return false
	case ":reset":
		s.src.Reset()
		s.pending, s.depth = nil, 0
		return true
	case ":ast":
		if res := s.engine.Check(replFile, []byte(s.src.String())); res.Program != nil {
			io.WriteString(w, ast.Format(res.Program))
		}
		return true
	}

	s.pending = append(s.pending, line)
	s.depth += strings.Count(line, "{") - strings.Count(line, "}")
	if s.depth > 0 {
		return true
	}
	chunk := strings.Join(s.pending, "\n") + "\n"
	s.pending, s.depth = nil, 0

	// Diagnostics before base belong to lines reported earlier. Ones that
	// sat at the old end of input may vanish once a later line completes
	// the statement, so they are selected by position, not by count.
	base := s.src.Len()
	res := s.engine.Check(replFile, []byte(s.src.String()+chunk))
	if res.Err != nil {
		fmt.Fprintf(w, "error: %v\n", res.Err)
		return true
	}
	var fresh []parser.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Pos.Offset >= base {
			fresh = append(fresh, d)
		}
	}
	printDiagnostics(w, []*frontend.Result{{Diagnostics: fresh}})
	s.src.WriteString(chunk)
	return true
}

func replCmd(ctx *cli.Context) error {
	engine, _, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var history string
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyFile)
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	s := newSession(engine)
	w := ctx.App.Writer
	for {
		input, err := line.Prompt(s.prompt())
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if !s.eval(w, input) {
			break
		}
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			log.Warn("Failed to save history", "file", history, "err", err)
		}
	}
	return nil
}
