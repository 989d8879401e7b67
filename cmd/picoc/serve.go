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
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-pico/server"
)

var (
	httpAddrFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP listening address (overrides HTTP.Addr)",
	}

	serveCommand = cli.Command{
		Action:   serveCmd,
		Name:     "serve",
		Usage:    "Serve check requests over HTTP",
		Flags:    []cli.Flag{httpAddrFlag},
		Category: "CHECK COMMANDS",
		Description: `The serve command starts an HTTP server answering POST /check,
POST /format and GET /version until it is interrupted.`,
	}
)

func serveCmd(ctx *cli.Context) error {
	engine, cfg, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	if addr := ctx.String(httpAddrFlag.Name); addr != "" {
		cfg.HTTP.Addr = addr
	}
	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(engine, cfg.HTTP).ListenAndServe(sigctx)
}
