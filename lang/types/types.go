// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package types defines the pico value types.
//
// There are exactly two declarable types, int and float. Unknown stands for
// the type of a name that could not be resolved; it is compatible with
// everything so that an undeclared identifier is reported once and does not
// cascade into type mismatches.
package types

import (
	"fmt"

	"github.com/probechain/go-pico/lang/token"
)

// Type is the resolved value type of a variable or expression.
type Type int

const (
	Unknown Type = iota
	Int
	Float
)

var typeNames = [...]string{
	Unknown: "unknown",
	Int:     "int",
	Float:   "float",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Known reports whether t is a declarable type.
func (t Type) Known() bool {
	return t == Int || t == Float
}

// FromKeyword maps a type keyword token to its Type.
func FromKeyword(kind token.Kind) Type {
	switch kind {
	case token.INTKW:
		return Int
	case token.FLOATKW:
		return Float
	}
	return Unknown
}

// Keyword returns the token kind that declares t.
func (t Type) Keyword() token.Kind {
	switch t {
	case Int:
		return token.INTKW
	case Float:
		return token.FLOATKW
	}
	return token.ILLEGAL
}

// Compatible reports whether a value of type b may be combined with or
// stored into a value of type a. The only incompatibility is int against
// float, in either direction.
func Compatible(a, b Type) bool {
	return !(a == Int && b == Float) && !(a == Float && b == Int)
}
