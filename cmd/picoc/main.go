// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// picoc is the command line front end of the pico language: it scans,
// parses and checks pico sources.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-pico/config"
	"github.com/probechain/go-pico/frontend"
)

const clientIdentifier = "picoc"

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: config.Defaults.Verbosity,
	}
	noColorFlag = cli.BoolFlag{
		Name:  "nocolor",
		Usage: "Disable colored output",
	}
	cacheDirFlag = cli.StringFlag{
		Name:  "cachedir",
		Usage: "Directory for persisted diagnostics (empty disables it)",
	}
	cacheEntriesFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Number of check results kept in memory",
		Value: config.Defaults.Cache.Entries,
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "the pico language front end"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		noColorFlag,
		cacheDirFlag,
		cacheEntriesFlag,
	}
	app.Commands = []cli.Command{
		tokensCommand,
		astCommand,
		checkCommand,
		fmtCommand,
		replCommand,
		watchCommand,
		serveCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		setupLogging(cfg)
		color.NoColor = !cfg.Color
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// makeConfig loads the configuration file, if any, and applies the global
// flags on top of it.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		var err error
		if cfg, err = config.Load(file); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	if ctx.GlobalBool(noColorFlag.Name) {
		cfg.Color = false
	}
	if ctx.GlobalIsSet(cacheDirFlag.Name) {
		cfg.Cache.Dir = ctx.GlobalString(cacheDirFlag.Name)
	}
	if ctx.GlobalIsSet(cacheEntriesFlag.Name) {
		cfg.Cache.Entries = ctx.GlobalInt(cacheEntriesFlag.Name)
	}
	return cfg, cfg.Validate()
}

func makeEngine(ctx *cli.Context) (*frontend.Engine, config.Config, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, cfg, err
	}
	engine, err := frontend.New(cfg.Cache)
	return engine, cfg, err
}

func setupLogging(cfg config.Config) {
	usecolor := cfg.Color && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	log.Root().SetHandler(logHandler(cfg.Verbosity, output, usecolor))
}

// logHandler filters records by verbosity. Level 0 is silent: even
// critical records are dropped.
func logHandler(verbosity int, output io.Writer, usecolor bool) log.Handler {
	if verbosity <= 0 {
		return log.DiscardHandler()
	}
	return log.LvlFilterHandler(log.Lvl(verbosity), log.StreamHandler(output, log.TerminalFormat(usecolor)))
}

// readSource reads the file named by the n-th command argument.
func readSource(ctx *cli.Context, n int) (string, []byte, error) {
	if ctx.NArg() <= n {
		return "", nil, fmt.Errorf("missing source file argument")
	}
	file := ctx.Args().Get(n)
	src, err := os.ReadFile(file)
	return file, src, err
}
