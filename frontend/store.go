// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package frontend

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/probechain/go-pico/lang/parser"
	"github.com/probechain/go-pico/lang/token"
)

// ErrNotStored is returned by Store.Get for an unknown digest.
var ErrNotStored = errors.New("diagnostics not stored")

// diagPrefix + digest -> snappy(rlp(storedResult))
var diagPrefix = []byte("d")

type storedDiagnostic struct {
	Code    uint64
	Line    uint64
	Column  uint64
	Offset  uint64
	Message string
}

type storedResult struct {
	File        string
	Diagnostics []storedDiagnostic
	Fatal       string // empty when the parse succeeded
}

// StoredError stands in for a fatal error restored from the store; only its
// message survives.
type StoredError string

func (e StoredError) Error() string { return string(e) }

// Store persists diagnostics keyed by source digest in leveldb.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens or creates a store in dir.
func OpenStore(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		// Records are already snappy-compressed.
		Compression: opt.NoCompression,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewMemoryStore returns a store that lives in memory only.
func NewMemoryStore() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func storeKey(d Digest) []byte {
	return append(append([]byte{}, diagPrefix...), d[:]...)
}

// Put records the diagnostics and fatal error of r under r.Digest.
func (s *Store) Put(r *Result) error {
	rec := storedResult{File: r.File}
	for _, d := range r.Diagnostics {
		rec.Diagnostics = append(rec.Diagnostics, storedDiagnostic{
			Code:    uint64(d.Code),
			Line:    uint64(d.Pos.Line),
			Column:  uint64(d.Pos.Column),
			Offset:  uint64(d.Pos.Offset),
			Message: d.Message,
		})
	}
	if r.Err != nil {
		rec.Fatal = r.Err.Error()
	}
	enc, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	return s.db.Put(storeKey(r.Digest), snappy.Encode(nil, enc), nil)
}

// Get restores the result stored for d. The program is never restored.
func (s *Store) Get(d Digest) (*Result, error) {
	blob, err := s.db.Get(storeKey(d), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotStored
	}
	if err != nil {
		return nil, err
	}
	enc, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, err
	}
	var rec storedResult
	if err := rlp.DecodeBytes(enc, &rec); err != nil {
		return nil, err
	}

	r := &Result{File: rec.File, Digest: d}
	for _, sd := range rec.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, parser.Diagnostic{
			Pos: token.Position{
				File:   rec.File,
				Line:   int(sd.Line),
				Column: int(sd.Column),
				Offset: int(sd.Offset),
			},
			Code:    parser.Code(sd.Code),
			Message: sd.Message,
		})
	}
	if rec.Fatal != "" {
		r.Err = StoredError(rec.Fatal)
	}
	return r, nil
}

// Delete drops the record for d, if any.
func (s *Store) Delete(d Digest) error {
	return s.db.Delete(storeKey(d), nil)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
