// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"bytes"
	"strings"

	"github.com/probechain/go-pico/lang/token"
)

// Format renders a program back to pico source. Parsing the output yields a
// tree of the same shape: parentheses are emitted exactly where the
// precedence and left associativity of the grammar require them.
func Format(prog *Block) string {
	var p printer
	p.statements(prog.Statements)
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(s string) {
	p.buf.WriteString(strings.Repeat("\t", p.indent))
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) statements(stmts []Statement) {
	for _, s := range stmts {
		p.statement(s)
	}
}

func (p *printer) statement(s Statement) {
	switch s := s.(type) {
	case *Declaration:
		src := s.Type.Keyword().String() + " " + s.Name
		if s.Init != nil {
			src += " = " + formatExpr(s.Init, 0)
		}
		p.line(src)
	case *Assignment:
		p.line(s.Name + " = " + formatExpr(s.Value, 0))
	case *FunctionCall:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = formatExpr(a, 0)
		}
		p.line(s.Name + "(" + strings.Join(args, ", ") + ")")
	case *IfStatement:
		p.line("if " + formatCondition(s.Condition) + " {")
		p.block(s.Then)
		if s.Else != nil {
			p.line("} else {")
			p.block(s.Else)
		}
		p.line("}")
	case *WhileStatement:
		p.line("while " + formatCondition(s.Condition) + " {")
		p.block(s.Body)
		p.line("}")
	}
}

func (p *printer) block(b *Block) {
	if b == nil {
		return
	}
	p.indent++
	p.statements(b.Statements)
	p.indent--
}

func formatCondition(c *BooleanExpression) string {
	if c == nil {
		return ""
	}
	if c.Right == nil {
		return formatExpr(c.Left, 0)
	}
	return formatExpr(c.Left, 0) + " " + c.Operator.String() + " " + formatExpr(c.Right, 0)
}

// precedence returns the binding power of an arithmetic operator.
func precedence(op token.Kind) int {
	switch op {
	case token.PLUS, token.MINUS:
		return 1
	case token.STAR, token.SLASH:
		return 2
	}
	return 3
}

// formatExpr prints e inside a context that binds with strength min; e is
// parenthesised when it binds more loosely than that.
func formatExpr(e Expression, min int) string {
	switch e := e.(type) {
	case *Factor:
		return e.Token.Literal
	case *BinaryOperation:
		prec := precedence(e.Operator)
		s := formatExpr(e.Left, prec) + " " + e.Operator.String() + " " + formatExpr(e.Right, prec+1)
		if prec < min {
			return "(" + s + ")"
		}
		return s
	}
	return ""
}
