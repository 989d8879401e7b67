// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package token

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		ident string
		want  Kind
	}{
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"int", INTKW},
		{"float", FLOATKW},
		{"iff", IDENT},
		{"Int", IDENT},
		{"x_1", IDENT},
	}
	for _, c := range cases {
		if got := Lookup(c.ident); got != c.want {
			t.Errorf("Lookup(%q) = %s, want %s", c.ident, got, c.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []Kind{IF, ELSE, WHILE, INTKW, FLOATKW} {
		if !k.IsKeyword() {
			t.Errorf("%s should be a keyword", k)
		}
	}
	for _, k := range []Kind{IDENT, INT, PLUS, RBRACE, EOF} {
		if k.IsKeyword() {
			t.Errorf("%s should not be a keyword", k)
		}
	}
	if !INTKW.IsTypeKeyword() || !FLOATKW.IsTypeKeyword() || IF.IsTypeKeyword() {
		t.Error("type keyword classification is wrong")
	}
}

func TestPositionString(t *testing.T) {
	if got := (Position{Line: 3, Column: 7}).String(); got != "3:7" {
		t.Errorf("got %q", got)
	}
	if got := (Position{File: "a.pico", Line: 1, Column: 2}).String(); got != "a.pico:1:2" {
		t.Errorf("got %q", got)
	}
}

func TestKindString(t *testing.T) {
	if NEQ.String() != "!=" || FLOATKW.String() != "float" {
		t.Error("unexpected kind names")
	}
	if got := Kind(999).String(); got != "token(999)" {
		t.Errorf("got %q", got)
	}
}
