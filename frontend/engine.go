// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package frontend runs the pico scanner and parser over source files and
// caches what they produce.
package frontend

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/probechain/go-pico/config"
	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/parser"
)

// Digest identifies a (file name, source) pair.
type Digest [32]byte

// SourceDigest hashes the file name together with the source, since both end
// up in the positions of the result.
func SourceDigest(file string, src []byte) Digest {
	h := sha3.New256()
	h.Write([]byte(file))
	h.Write([]byte{0})
	h.Write(src)

	var d Digest
	h.Sum(d[:0])
	return d
}

func (d Digest) String() string { return hexutil.Encode(d[:]) }

// Result is the outcome of checking one source.
type Result struct {
	File        string
	Digest      Digest
	Program     *ast.Block // nil if Err is set or the result came from the store
	Diagnostics []parser.Diagnostic
	Err         error // fatal scan or parse error
	Cached      bool
}

// OK reports whether the source parsed without any problem.
func (r *Result) OK() bool { return r.Err == nil && len(r.Diagnostics) == 0 }

// Stats counts cache traffic.
type Stats struct {
	Hits      uint64
	StoreHits uint64
	Misses    uint64
}

// Engine checks sources, sharing results between identical inputs. An Engine
// is safe for concurrent use; every check runs its own parser.
type Engine struct {
	runID uuid.UUID
	cache *lru.Cache // Digest -> *Result, nil when disabled
	store *Store     // nil when disabled

	hits, storeHits, misses uint64
}

// New creates an engine from the cache settings. A zero entry count disables
// the in-memory cache, an empty directory the persistent store.
func New(cfg config.CacheConfig) (*Engine, error) {
	e := &Engine{runID: uuid.New()}
	if cfg.Entries > 0 {
		cache, err := lru.New(cfg.Entries)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	if cfg.Dir != "" {
		store, err := OpenStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		e.store = store
	}
	log.Debug("Check engine started", "run", e.runID, "entries", cfg.Entries, "store", cfg.Dir)
	return e, nil
}

// NewWithStore creates an engine on top of an already opened store.
func NewWithStore(entries int, store *Store) (*Engine, error) {
	e, err := New(config.CacheConfig{Entries: entries})
	if err != nil {
		return nil, err
	}
	e.store = store
	return e, nil
}

// RunID identifies this engine instance in logs and server responses.
func (e *Engine) RunID() string { return e.runID.String() }

// Stats returns a snapshot of the cache counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadUint64(&e.hits),
		StoreHits: atomic.LoadUint64(&e.storeHits),
		Misses:    atomic.LoadUint64(&e.misses),
	}
}

// Close releases the persistent store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Check parses src and returns the full result including the AST. Results
// are shared: callers must not modify the returned tree.
func (e *Engine) Check(file string, src []byte) *Result {
	d := SourceDigest(file, src)
	if r, ok := e.cached(d); ok {
		return r
	}
	return e.parse(file, src, d)
}

// Diagnose is like Check but only needs the diagnostics, so a result
// persisted by an earlier run is good enough.
func (e *Engine) Diagnose(file string, src []byte) *Result {
	d := SourceDigest(file, src)
	if r, ok := e.cached(d); ok {
		return r
	}
	if e.store != nil {
		r, err := e.store.Get(d)
		switch {
		case err == nil:
			atomic.AddUint64(&e.storeHits, 1)
			log.Trace("Restored diagnostics", "file", file, "digest", d)
			r.Cached = true
			return r
		case err != ErrNotStored:
			log.Warn("Failed to read diagnostics store", "digest", d, "err", err)
		}
	}
	return e.parse(file, src, d)
}

func (e *Engine) cached(d Digest) (*Result, bool) {
	if e.cache == nil {
		return nil, false
	}
	v, ok := e.cache.Get(d)
	if !ok {
		return nil, false
	}
	atomic.AddUint64(&e.hits, 1)
	r := *v.(*Result)
	r.Cached = true
	return &r, true
}

func (e *Engine) parse(file string, src []byte, d Digest) *Result {
	atomic.AddUint64(&e.misses, 1)
	start := time.Now()

	prog, diags, err := parser.Parse(file, string(src))
	r := &Result{File: file, Digest: d, Program: prog, Diagnostics: diags, Err: err}

	log.Debug("Checked source", "file", file, "digest", d, "nodes", nodeCount(prog), "diags", len(diags),
		"fatal", err != nil, "elapsed", common.PrettyDuration(time.Since(start)))

	if e.cache != nil {
		e.cache.Add(d, r)
	}
	if e.store != nil {
		if err := e.store.Put(r); err != nil {
			log.Warn("Failed to persist diagnostics", "file", file, "err", err)
		}
	}
	return r
}

func nodeCount(prog *ast.Block) int {
	if prog == nil {
		return 0
	}
	n := 0
	ast.Inspect(prog, func(ast.Node) bool {
		n++
		return true
	})
	return n
}

// CheckFiles reads and diagnoses every path concurrently. Results are in
// the order of paths. The first read error cancels the remaining work.
func (e *Engine) CheckFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = e.Diagnose(path, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("Checked files", "run", e.runID, "files", len(paths))
	return results, nil
}
