// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	"errors"
	"fmt"

	"github.com/probechain/go-pico/lang/token"
)

// Code classifies a soft diagnostic.
type Code int

const (
	// Redeclared: a name was declared twice in the same scope.
	Redeclared Code = iota
	// Undeclared: a name was used that no enclosing scope binds.
	Undeclared
	// TypeMismatch: int and float were combined or assigned.
	TypeMismatch
	// UnexpectedToken: a statement or factor started with a token that
	// cannot begin one.
	UnexpectedToken
	// MissingOperator: a condition lacks its comparison operator.
	MissingOperator
	// ExpectedToken: a required token was absent on a recoverable path.
	ExpectedToken
	// ScopeUnderflow: an attempt to exit the program-wide scope.
	ScopeUnderflow
)

var codeNames = [...]string{
	Redeclared:      "redeclared",
	Undeclared:      "undeclared",
	TypeMismatch:    "type-mismatch",
	UnexpectedToken: "unexpected-token",
	MissingOperator: "missing-operator",
	ExpectedToken:   "expected-token",
	ScopeUnderflow:  "scope-underflow",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("diagnostic(%d)", int(c))
}

// Diagnostic is a recorded, non-fatal problem. Parsing continues after it.
type Diagnostic struct {
	Pos     token.Position
	Code    Code
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

var (
	// ErrNoTokens is returned when the parser is handed an empty stream.
	ErrNoTokens = errors.New("empty token stream")

	// ErrExpectedToken is wrapped by every *Error.
	ErrExpectedToken = errors.New("unexpected token")
)

// Error is a fatal parse error raised where the grammar cannot continue
// without the expected token.
type Error struct {
	Pos  token.Position
	Want token.Kind
	Got  token.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Pos, e.Want, e.Got)
}

func (e *Error) Unwrap() error { return ErrExpectedToken }

// bailout unwinds the recursive descent on a fatal error.
type bailout struct {
	err error
}
