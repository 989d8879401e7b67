// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/probechain/go-pico/config"
	"github.com/probechain/go-pico/frontend"
	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/lexer"
	"github.com/probechain/go-pico/lang/token"
)

var (
	astFormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "Output format: text, yaml or spew",
		Value: "text",
	}
	writeFlag = cli.BoolFlag{
		Name:  "w",
		Usage: "Write the result back to the source file",
	}

	tokensCommand = cli.Command{
		Action:      tokensCmd,
		Name:        "tokens",
		Usage:       "Print the token stream of a source file",
		ArgsUsage:   "<file>",
		Category:    "INSPECTION COMMANDS",
		Description: `The tokens command scans a file and prints every token as a table.`,
	}
	astCommand = cli.Command{
		Action:    astCmd,
		Name:      "ast",
		Usage:     "Print the syntax tree of a source file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{astFormatFlag},
		Category:  "INSPECTION COMMANDS",
		Description: `The ast command parses a file and prints its syntax tree, either as
pico source (text), as a YAML document (yaml) or as a Go value dump (spew).`,
	}
	checkCommand = cli.Command{
		Action:    checkCmd,
		Name:      "check",
		Usage:     "Check source files for errors",
		ArgsUsage: "<file> [<file>...]",
		Category:  "CHECK COMMANDS",
		Description: `The check command parses every given file concurrently and reports
redeclarations, undeclared names, int/float mismatches and syntax errors.
It exits with status 1 if any file has a problem.`,
	}
	fmtCommand = cli.Command{
		Action:      fmtCmd,
		Name:        "fmt",
		Usage:       "Reformat a source file",
		ArgsUsage:   "<file>",
		Flags:       []cli.Flag{writeFlag},
		Category:    "CHECK COMMANDS",
		Description: `The fmt command prints a file in canonical layout, or rewrites it with -w.`,
	}
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[<file>]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

func tokensCmd(ctx *cli.Context) error {
	file, src, err := readSource(ctx, 0)
	if err != nil {
		return err
	}
	toks, err := lexer.Tokenize(file, string(src))
	if err != nil {
		return err
	}
	writeTokens(ctx.App.Writer, toks)
	return nil
}

func writeTokens(w io.Writer, toks []token.Token) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pos", "Kind", "Literal", "Value"})
	table.SetAutoWrapText(false)
	for _, tok := range toks {
		var value string
		switch tok.Kind {
		case token.INT:
			value = strconv.FormatInt(tok.Int, 10)
		case token.FLOAT:
			value = strconv.FormatFloat(tok.Float, 'g', -1, 64)
		}
		pos := fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column)
		table.Append([]string{pos, tok.Kind.String(), tok.Literal, value})
	}
	table.Render()
}

func astCmd(ctx *cli.Context) error {
	file, src, err := readSource(ctx, 0)
	if err != nil {
		return err
	}
	engine, _, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	res := engine.Check(file, src)
	if res.Err != nil {
		return res.Err
	}
	w := ctx.App.Writer
	printDiagnostics(w, []*frontend.Result{res})

	switch f := ctx.String(astFormatFlag.Name); f {
	case "text":
		_, err = io.WriteString(w, ast.Format(res.Program))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(yamlNode(res.Program)); err == nil {
			err = enc.Close()
		}
	case "spew":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, res.Program)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	return err
}

func checkCmd(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("missing source file argument")
	}
	engine, _, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.CheckFiles(context.Background(), ctx.Args())
	if err != nil {
		return err
	}
	if problems := printDiagnostics(ctx.App.Writer, results); problems > 0 {
		return cli.NewExitError(fmt.Sprintf("%d problem(s) found", problems), 1)
	}
	return nil
}

// printDiagnostics reports every problem in results and returns how many
// there were.
func printDiagnostics(w io.Writer, results []*frontend.Result) int {
	var (
		warn  = color.New(color.FgYellow).SprintFunc()
		fatal = color.New(color.FgRed, color.Bold).SprintFunc()
		dim   = color.New(color.Faint).SprintFunc()
	)
	problems := 0
	for _, res := range results {
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "%s: %s %s\n", d.Pos, warn(d.Message), dim("["+d.Code.String()+"]"))
			problems++
		}
		if res.Err != nil {
			fmt.Fprintf(w, "%s: %s\n", res.File, fatal(res.Err.Error()))
			problems++
		}
	}
	return problems
}

func fmtCmd(ctx *cli.Context) error {
	file, src, err := readSource(ctx, 0)
	if err != nil {
		return err
	}
	engine, _, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	res := engine.Check(file, src)
	if res.Err != nil {
		return res.Err
	}
	out := ast.Format(res.Program)
	if ctx.Bool(writeFlag.Name) {
		return os.WriteFile(file, []byte(out), 0644)
	}
	_, err = io.WriteString(ctx.App.Writer, out)
	return err
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := config.Dump(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
