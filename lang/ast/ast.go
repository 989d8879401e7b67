// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the Abstract Syntax Tree for the pico language.
//
// Design overview:
//
//   - All AST nodes implement the Node interface via TokenLiteral and String.
//   - Expressions carry the value type resolved by the parser; types are never
//     inferred after parsing.
//   - The tree is position-annotated via token.Token so later stages can
//     reference source locations.
//   - Conditions of if/while are BooleanExpressions, which are not values and
//     therefore not Expressions.
package ast

import (
	"bytes"
	"strings"

	"github.com/probechain/go-pico/lang/token"
	"github.com/probechain/go-pico/lang/types"
)

// ---------------------------------------------------------------------------
// Core interfaces
// ---------------------------------------------------------------------------

// Node is the base interface that every AST node must implement.
type Node interface {
	// TokenLiteral returns the literal value of the token that originated this
	// node. Used primarily for debugging and testing.
	TokenLiteral() string

	// String returns a human-readable, parenthesised representation of the node
	// suitable for unit tests and debug output.
	String() string
}

// Expression is a value-producing node with a parse-time resolved type.
type Expression interface {
	Node
	Type() types.Type
	expressionNode()
}

// Statement is a marker interface for all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

// Block is an ordered sequence of statements.
type Block struct {
	Token      token.Token // '{', or the first token of the program
	Statements []Statement
}

func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, s := range b.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString("}")
	return out.String()
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Declaration is "int x" or "float y = expr".
type Declaration struct {
	Token token.Token // the type keyword
	Type  types.Type
	Name  string
	Init  Expression // nil when absent
}

func (d *Declaration) statementNode()       {}
func (d *Declaration) TokenLiteral() string { return d.Token.Literal }
func (d *Declaration) String() string {
	s := d.Type.String() + " " + d.Name
	if d.Init != nil {
		s += " = " + d.Init.String()
	}
	return s
}

// Assignment is "x = expr".
type Assignment struct {
	Token token.Token // the IDENT token
	Name  string
	Value Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) String() string {
	return a.Name + " = " + exprString(a.Value)
}

// IfStatement is "if cond { ... } [else { ... }]".
type IfStatement struct {
	Token     token.Token // 'if'
	Condition *BooleanExpression
	Then      *Block
	Else      *Block // nil when there is no else branch
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) String() string {
	out := "if " + s.Condition.String() + " " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// WhileStatement is "while cond { ... }".
type WhileStatement struct {
	Token     token.Token // 'while'
	Condition *BooleanExpression
	Body      *Block
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) String() string {
	return "while " + s.Condition.String() + " " + s.Body.String()
}

// FunctionCall is a bare call statement "f(a, b)".
type FunctionCall struct {
	Token token.Token // the IDENT token
	Name  string
	Args  []Expression
}

func (c *FunctionCall) statementNode()       {}
func (c *FunctionCall) TokenLiteral() string { return c.Token.Literal }
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = exprString(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// ---------------------------------------------------------------------------
// Conditions and expressions
// ---------------------------------------------------------------------------

// BooleanExpression is a single comparison "left op right". When the
// comparison operator is missing, Operator is token.ILLEGAL and Right is nil.
type BooleanExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator token.Kind
	Right    Expression
}

func (b *BooleanExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanExpression) String() string {
	if b.Right == nil {
		return "(" + exprString(b.Left) + ")"
	}
	return "(" + exprString(b.Left) + " " + b.Operator.String() + " " + exprString(b.Right) + ")"
}

// BinaryOperation is an arithmetic "left op right". ValueType is always the
// left operand's type.
type BinaryOperation struct {
	Token     token.Token // the operator token
	Left      Expression
	Operator  token.Kind
	Right     Expression
	ValueType types.Type
}

func (b *BinaryOperation) expressionNode()      {}
func (b *BinaryOperation) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryOperation) Type() types.Type     { return b.ValueType }
func (b *BinaryOperation) String() string {
	return "(" + exprString(b.Left) + " " + b.Operator.String() + " " + exprString(b.Right) + ")"
}

// Factor is a literal or an identifier. For identifiers Name is set and
// ValueType is whatever the symbol table resolved, possibly types.Unknown.
type Factor struct {
	Token     token.Token // INT, FLOAT or IDENT
	Name      string
	ValueType types.Type
}

func (f *Factor) expressionNode()      {}
func (f *Factor) TokenLiteral() string { return f.Token.Literal }
func (f *Factor) Type() types.Type     { return f.ValueType }
func (f *Factor) String() string       { return f.Token.Literal }

// IsIdent reports whether the factor names a variable.
func (f *Factor) IsIdent() bool { return f.Token.Kind == token.IDENT }

// Value returns the literal value (int64 or float64) or the identifier name.
func (f *Factor) Value() interface{} {
	switch f.Token.Kind {
	case token.INT:
		return f.Token.Int
	case token.FLOAT:
		return f.Token.Float
	}
	return f.Name
}

// TypeOf returns the value type of e, or types.Unknown when e is nil (an
// expression the parser could not build).
func TypeOf(e Expression) types.Type {
	if e == nil {
		return types.Unknown
	}
	return e.Type()
}

func exprString(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
