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
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rjeczalik/notify"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/go-pico/frontend"
)

const sourceExt = ".pico"

var watchCommand = cli.Command{
	Action:    watchCmd,
	Name:      "watch",
	Usage:     "Re-check source files whenever they change",
	ArgsUsage: "<dir|file> [<dir|file>...]",
	Category:  "CHECK COMMANDS",
	Description: `The watch command checks every .pico file below the given paths each
time one of them is written, created or renamed. Bursts of events are
coalesced using the Watch.Debounce setting.`,
}

func isSource(path string) bool {
	return filepath.Ext(path) == sourceExt
}

// debouncer collects changed paths and flushes them once no new event has
// arrived for the configured delay.
type debouncer struct {
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	t := time.NewTimer(0)
	if !t.Stop() {
		<-t.C
	}
	return &debouncer{delay: delay, pending: make(map[string]struct{}), timer: t}
}

func (d *debouncer) add(path string) {
	d.pending[path] = struct{}{}
	d.timer.Reset(d.delay)
}

// flush returns the collected paths in sorted order and clears them.
func (d *debouncer) flush() []string {
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	d.pending = make(map[string]struct{})
	return paths
}

// recheck diagnoses the changed files that still exist and prints the outcome.
func recheck(w io.Writer, engine *frontend.Engine, paths []string) {
	var results []*frontend.Result
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			log.Debug("Skipping unreadable file", "path", path, "err", err)
			continue
		}
		results = append(results, engine.Diagnose(path, src))
	}
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(w, "%s: ok\n", res.File)
		}
	}
	printDiagnostics(w, results)
}

func watchCmd(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("missing path argument")
	}
	engine, cfg, err := makeEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	events := make(chan notify.EventInfo, 64)
	for _, path := range ctx.Args() {
		target := path
		if fi, err := os.Stat(path); err != nil {
			return err
		} else if fi.IsDir() {
			target = filepath.Join(path, "...")
		}
		if err := notify.Watch(target, events, notify.Write|notify.Create|notify.Rename); err != nil {
			return err
		}
		log.Info("Watching sources", "path", target)
	}
	defer notify.Stop(events)

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDebouncer(cfg.Watch.Debounce)
	for {
		select {
		case ev := <-events:
			if isSource(ev.Path()) {
				log.Trace("Source changed", "path", ev.Path(), "event", ev.Event())
				d.add(ev.Path())
			}
		case <-d.timer.C:
			recheck(ctx.App.Writer, engine, d.flush())
		case <-sigctx.Done():
			return nil
		}
	}
}
