// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a recursive-descent parser for the pico language
// that resolves names and checks int/float compatibility while it parses.
//
// Design overview:
//
//   - One token of lookahead over an already scanned token slice; every
//     token is consumed exactly once and the parser never backtracks.
//   - The parser owns a stack of scopes (see SymbolTable). Blocks of if/else
//     and while bodies get their own scope; declarations go into the current
//     scope and uses are resolved innermost first.
//   - Soft problems (redeclaration, undeclared names, type mismatches,
//     unexpected tokens) are collected as Diagnostics and parsing continues.
//   - A missing token on the expect path is fatal: the parse unwinds and
//     no AST is returned.
package parser

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/lexer"
	"github.com/probechain/go-pico/lang/token"
	"github.com/probechain/go-pico/lang/types"
)

// Parser holds the mutable state for a single parse run.
type Parser struct {
	toks []token.Token
	pos  int         // index of cur in toks
	cur  token.Token // current token

	symbols *SymbolTable
	diags   []Diagnostic
	tainted map[ast.Expression]struct{} // subtrees that already hold a type mismatch
}

// newParser prepares a parser over toks. A stream that does not end in EOF
// gets one appended so that every loop in the grammar terminates.
func newParser(toks []token.Token) (*Parser, error) {
	if len(toks) == 0 {
		return nil, ErrNoTokens
	}
	if toks[len(toks)-1].Kind != token.EOF {
		last := toks[len(toks)-1]
		toks = append(toks[:len(toks):len(toks)], token.Token{Kind: token.EOF, Pos: last.Pos})
	}
	return &Parser{
		toks:    toks,
		cur:     toks[0],
		symbols: NewSymbolTable(),
		tainted: make(map[ast.Expression]struct{}),
	}, nil
}

// Parse tokenizes source and parses it. It returns the program together with
// every diagnostic collected on the way. A non-nil error means scanning or
// parsing hit a fatal condition and no program is returned; diagnostics
// recorded before that point are still returned.
func Parse(filename, source string) (*ast.Block, []Diagnostic, error) {
	toks, err := lexer.Tokenize(filename, source)
	if err != nil {
		return nil, nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already scanned token stream.
func ParseTokens(toks []token.Token) (prog *ast.Block, diags []Diagnostic, err error) {
	p, err := newParser(toks)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, diags, err = nil, p.diags, b.err
		}
	}()
	prog = p.parseProgram()
	return prog, p.diags, nil
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

// advance moves to the next token. It never moves past the final EOF.
func (p *Parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
		p.cur = p.toks[p.pos]
	}
}

// peek returns the kind of the token after cur.
func (p *Parser) peek() token.Kind {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1].Kind
	}
	return token.EOF
}

// curIs returns true if the current token has the given kind.
func (p *Parser) curIs(kind token.Kind) bool { return p.cur.Kind == kind }

// expect consumes the current token if it matches kind; otherwise the parse
// is aborted with a fatal *Error.
func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur.Kind != kind {
		panic(bailout{&Error{Pos: p.cur.Pos, Want: kind, Got: p.cur}})
	}
	tok := p.cur
	p.advance()
	return tok
}

// accept consumes the current token if it matches kind. Otherwise it records
// an ExpectedToken diagnostic, leaves the token in place and returns false.
func (p *Parser) accept(kind token.Kind) bool {
	if p.cur.Kind == kind {
		p.advance()
		return true
	}
	p.errorf(ExpectedToken, p.cur.Pos, "expected %s, got %s", kind, p.cur)
	return false
}

// errorf records a diagnostic at the given position.
func (p *Parser) errorf(code Code, pos token.Position, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{Pos: pos, Code: code, Message: fmt.Sprintf(format, args...)})
}

// ---------------------------------------------------------------------------
// Scopes and type checks
// ---------------------------------------------------------------------------

func (p *Parser) enterScope() {
	s := p.symbols.Enter()
	log.Trace("Entered scope", "id", s.ID, "depth", p.symbols.Depth())
}

func (p *Parser) exitScope() {
	s, err := p.symbols.Exit()
	if err != nil {
		p.errorf(ScopeUnderflow, p.cur.Pos, "%v", err)
		return
	}
	log.Trace("Exited scope", "id", s.ID, "vars", s.Len(), "depth", p.symbols.Depth())
}

// checkRedeclared reports name if the current scope already binds it.
func (p *Parser) checkRedeclared(name string, pos token.Position) bool {
	if _, ok := p.symbols.Current().Lookup(name); ok {
		p.errorf(Redeclared, pos, "variable %s has already been declared in the current scope", name)
		return true
	}
	return false
}

// declare binds name in the current scope, reporting a redeclaration.
func (p *Parser) declare(name string, typ types.Type, pos token.Position) {
	if err := p.symbols.Declare(name, typ); err != nil {
		p.errorf(Redeclared, pos, "variable %s has already been declared in the current scope", name)
	}
}

// resolve looks name up in every visible scope. Undeclared names are
// reported and resolve to types.Unknown.
func (p *Parser) resolve(name string, pos token.Position) (types.Type, bool) {
	typ, ok := p.symbols.Resolve(name)
	if !ok {
		p.errorf(Undeclared, pos, "variable %s has not been declared in the current or any enclosing scopes", name)
	}
	return typ, ok
}

// checkTypes reports an int/float mismatch between left and right.
func (p *Parser) checkTypes(left, right types.Type, pos token.Position) bool {
	if !types.Compatible(left, right) {
		p.errorf(TypeMismatch, pos, "type mismatch between %s and %s", left, right)
		return false
	}
	return true
}

// isTainted reports whether a type mismatch was already reported inside e.
func (p *Parser) isTainted(e ast.Expression) bool {
	if e == nil {
		return false
	}
	_, ok := p.tainted[e]
	return ok
}

// checkOperands checks the types of two operands unless either of them
// already carries a reported mismatch. It returns false in both cases.
func (p *Parser) checkOperands(left, right ast.Expression, pos token.Position) bool {
	if p.isTainted(left) || p.isTainted(right) {
		return false
	}
	return p.checkTypes(ast.TypeOf(left), ast.TypeOf(right), pos)
}

// checkStored checks a value of expression e stored into a variable of type
// typ, skipping expressions whose mismatch was already reported.
func (p *Parser) checkStored(typ types.Type, e ast.Expression, pos token.Position) {
	if !p.isTainted(e) {
		p.checkTypes(typ, ast.TypeOf(e), pos)
	}
}

// ---------------------------------------------------------------------------
// Program and statements
// ---------------------------------------------------------------------------

func (p *Parser) parseProgram() *ast.Block {
	prog := &ast.Block{Token: p.cur}
	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// parseStatement dispatches on the current token. It returns nil when no
// statement could be built; an unexpected token is skipped so that the
// caller always makes progress.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.INTKW, token.FLOATKW:
		return p.parseDeclaration()
	case token.IDENT:
		switch p.peek() {
		case token.ASSIGN:
			return p.parseAssignment()
		case token.LPAREN:
			return p.parseFunctionCall()
		}
		p.errorf(UnexpectedToken, p.cur.Pos, "unexpected token after identifier %s", p.cur.Literal)
		p.advance()
		return nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	default:
		p.errorf(UnexpectedToken, p.cur.Pos, "unexpected token %s", p.cur)
		p.advance()
		return nil
	}
}

// parseDeclaration parses "type IDENT [ = expression ]". The redeclaration
// check runs before the initializer so that the initializer cannot see the
// name being declared.
func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur // 'int' / 'float'
	typ := types.FromKeyword(tok.Kind)
	p.advance()

	if !p.curIs(token.IDENT) {
		p.errorf(ExpectedToken, p.cur.Pos, "expected an identifier, got %s", p.cur)
		return nil
	}
	nameTok := p.cur
	redeclared := p.checkRedeclared(nameTok.Literal, nameTok.Pos)
	p.advance()

	var init ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		init = p.parseExpression()
		p.checkStored(typ, init, nameTok.Pos)
	}

	if !redeclared {
		p.declare(nameTok.Literal, typ, nameTok.Pos)
	}
	return &ast.Declaration{Token: tok, Type: typ, Name: nameTok.Literal, Init: init}
}

// parseAssignment parses "IDENT = expression".
func (p *Parser) parseAssignment() *ast.Assignment {
	nameTok := p.cur
	typ, _ := p.resolve(nameTok.Literal, nameTok.Pos)
	p.advance()

	p.accept(token.ASSIGN)
	value := p.parseExpression()
	p.checkStored(typ, value, nameTok.Pos)

	return &ast.Assignment{Token: nameTok, Name: nameTok.Literal, Value: value}
}

// parseIf parses "if condition { block } [ else { block } ]". Each block
// gets its own scope. A missing '}' after the else block drops the whole
// statement.
func (p *Parser) parseIf() ast.Statement {
	tok := p.cur // 'if'
	p.advance()

	cond := p.parseCondition()
	then := p.parseScopedBlock()

	var alt *ast.Block
	if p.curIs(token.ELSE) {
		p.advance()
		open := p.cur
		p.accept(token.LBRACE)
		p.enterScope()
		alt = p.parseBlock(open)
		if !p.curIs(token.RBRACE) {
			p.errorf(ExpectedToken, p.cur.Pos, "expected %s, got %s", token.RBRACE, p.cur)
			p.exitScope()
			return nil
		}
		p.advance()
		p.exitScope()
	}
	return &ast.IfStatement{Token: tok, Condition: cond, Then: then, Else: alt}
}

// parseWhile parses "while condition { block }".
func (p *Parser) parseWhile() *ast.WhileStatement {
	tok := p.cur // 'while'
	p.advance()

	cond := p.parseCondition()
	body := p.parseScopedBlock()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

// parseScopedBlock parses "{ block }" inside a fresh scope.
func (p *Parser) parseScopedBlock() *ast.Block {
	open := p.cur
	p.accept(token.LBRACE)
	p.enterScope()
	block := p.parseBlock(open)
	p.accept(token.RBRACE)
	p.exitScope()
	return block
}

// parseBlock parses statements up to '}' or EOF. Scopes are the caller's
// business.
func (p *Parser) parseBlock(open token.Token) *ast.Block {
	block := &ast.Block{Token: open}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	return block
}

// parseFunctionCall parses "IDENT ( [ expression { , expression } ] )".
func (p *Parser) parseFunctionCall() *ast.FunctionCall {
	nameTok := p.cur
	p.advance()

	p.expect(token.LPAREN)
	args := p.parseArgList()
	p.expect(token.RPAREN)

	return &ast.FunctionCall{Token: nameTok, Name: nameTok.Literal, Args: args}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.curIs(token.RPAREN) {
		return args
	}
	if arg := p.parseExpression(); arg != nil {
		args = append(args, arg)
	}
	for p.curIs(token.COMMA) {
		p.advance()
		if arg := p.parseExpression(); arg != nil {
			args = append(args, arg)
		}
	}
	return args
}
