// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/token"
	"github.com/probechain/go-pico/lang/types"
)

// Operator classes, from loosest to tightest binding.
var (
	comparisonOps     = mapset.NewSet(token.EQ, token.NEQ, token.LT, token.GT)
	additiveOps       = mapset.NewSet(token.PLUS, token.MINUS)
	multiplicativeOps = mapset.NewSet(token.STAR, token.SLASH)
)

// parseCondition parses "expression cmp expression" where cmp is one of
// == != < >. Without a comparison operator the condition keeps only its
// left operand.
func (p *Parser) parseCondition() *ast.BooleanExpression {
	left := p.parseExpression()

	if !comparisonOps.Contains(p.cur.Kind) {
		p.errorf(MissingOperator, p.cur.Pos, "expected a comparison operator, got %s", p.cur)
		return &ast.BooleanExpression{Token: p.cur, Left: left, Operator: token.ILLEGAL}
	}
	opTok := p.cur
	p.advance()

	right := p.parseExpression()
	p.checkOperands(left, right, opTok.Pos)

	return &ast.BooleanExpression{Token: opTok, Left: left, Operator: opTok.Kind, Right: right}
}

// parseExpression parses a left-associative chain of terms joined by + and -.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseChain(additiveOps, p.parseTerm)
}

// parseTerm parses a left-associative chain of factors joined by * and /.
func (p *Parser) parseTerm() ast.Expression {
	return p.parseChain(multiplicativeOps, p.parseFactor)
}

// parseChain folds operands joined by ops into a left-leaning tree. Each
// step checks the two operand types and the node takes the type of its left
// operand; int and float are never promoted. A node whose check failed, or
// that contains one, is tainted so the mismatch is reported only once.
func (p *Parser) parseChain(ops mapset.Set, operand func() ast.Expression) ast.Expression {
	left := operand()
	for ops.Contains(p.cur.Kind) {
		opTok := p.cur
		p.advance()
		right := operand()

		node := &ast.BinaryOperation{
			Token:     opTok,
			Left:      left,
			Operator:  opTok.Kind,
			Right:     right,
			ValueType: ast.TypeOf(left),
		}
		if !p.checkOperands(left, right, opTok.Pos) {
			p.tainted[node] = struct{}{}
		}
		left = node
	}
	return left
}

// parseFactor parses a literal, an identifier or "( expression )". Any other
// token is reported and left in place; the result is then nil.
func (p *Parser) parseFactor() ast.Expression {
	tok := p.cur
	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.Factor{Token: tok, ValueType: types.Int}
	case token.FLOAT:
		p.advance()
		return &ast.Factor{Token: tok, ValueType: types.Float}
	case token.IDENT:
		typ, _ := p.resolve(tok.Literal, tok.Pos)
		p.advance()
		return &ast.Factor{Token: tok, Name: tok.Literal, ValueType: typ}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	}
	p.errorf(UnexpectedToken, tok.Pos, "unexpected token in factor: %s", tok)
	return nil
}
