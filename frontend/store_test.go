// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/go-pico/lang/parser"
	"github.com/probechain/go-pico/lang/token"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	d := SourceDigest("x.pico", []byte("y = 1"))
	in := &Result{
		File:   "x.pico",
		Digest: d,
		Diagnostics: []parser.Diagnostic{{
			Pos:     token.Position{File: "x.pico", Line: 1, Column: 1, Offset: 0},
			Code:    parser.Undeclared,
			Message: "variable y has not been declared in the current or any enclosing scopes",
		}},
	}
	require.NoError(t, s.Put(in))

	out, err := s.Get(d)
	require.NoError(t, err)
	assert.Equal(t, in.File, out.File)
	assert.Equal(t, in.Diagnostics, out.Diagnostics)
	assert.NoError(t, out.Err)
}

func TestStoreFatal(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	d := SourceDigest("f.pico", []byte("f("))
	require.NoError(t, s.Put(&Result{File: "f.pico", Digest: d, Err: StoredError("1:3: expected ), got EOF")}))

	out, err := s.Get(d)
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "1:3: expected ), got EOF")
	assert.Empty(t, out.Diagnostics)
}

func TestStoreMissingAndDelete(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	d := SourceDigest("a.pico", nil)
	_, err = s.Get(d)
	assert.ErrorIs(t, err, ErrNotStored)

	require.NoError(t, s.Put(&Result{File: "a.pico", Digest: d}))
	_, err = s.Get(d)
	require.NoError(t, err)

	require.NoError(t, s.Delete(d))
	_, err = s.Get(d)
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestOpenStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(dir)
	require.NoError(t, err)

	d := SourceDigest("a.pico", []byte("int x"))
	require.NoError(t, s.Put(&Result{File: "a.pico", Digest: d}))
	require.NoError(t, s.Close())

	s, err = OpenStore(dir)
	require.NoError(t, err)
	defer s.Close()
	out, err := s.Get(d)
	require.NoError(t, err)
	assert.Equal(t, "a.pico", out.File)
}
