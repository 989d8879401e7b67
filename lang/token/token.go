// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token kinds for the pico language.
//
// The language surface is deliberately small: integer and float literals,
// identifiers, arithmetic, comparisons, if/else, while and call statements.
package token

import "fmt"

// Token is a classified lexical unit. Numeric tokens carry their decoded
// value in Int or Float; Literal always holds the source text.
type Token struct {
	Kind    Kind
	Literal string
	Int     int64
	Float   float64
	Pos     Position
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case IDENT, INT, FLOAT:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Literal)
	}
	return t.Kind.String()
}

// Position tracks source location.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind is the set of lexical token kinds.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT // x, total_1
	INT   // 42
	FLOAT // 3.14

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	ASSIGN // =

	// Comparison
	EQ  // ==
	NEQ // !=
	LT  // <
	GT  // >

	// Delimiters
	LPAREN // (
	RPAREN // )
	COMMA  // ,
	COLON  // :
	LBRACE // {
	RBRACE // }

	keywordStart
	IF      // if
	ELSE    // else
	WHILE   // while
	INTKW   // int
	FLOATKW // float
	keywordEnd
)

var kindNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT: "IDENT",
	INT:   "INT",
	FLOAT: "FLOAT",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	ASSIGN: "=",

	EQ:  "==",
	NEQ: "!=",
	LT:  "<",
	GT:  ">",

	LPAREN: "(",
	RPAREN: ")",
	COMMA:  ",",
	COLON:  ":",
	LBRACE: "{",
	RBRACE: "}",

	IF:      "if",
	ELSE:    "else",
	WHILE:   "while",
	INTKW:   "int",
	FLOATKW: "float",
}

// String returns the string form of a token kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// IsKeyword returns true if the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > keywordStart && k < keywordEnd
}

// IsTypeKeyword reports whether k names a value type (int or float).
func (k Kind) IsTypeKeyword() bool {
	return k == INTKW || k == FLOATKW
}

var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		keywords[kindNames[i]] = i
	}
}

// Lookup checks if an identifier is a reserved word.
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}
