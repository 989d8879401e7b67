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
	"strings"
	"testing"

	"github.com/probechain/go-pico/lang/ast"
	"github.com/probechain/go-pico/lang/lexer"
	"github.com/probechain/go-pico/lang/token"
	"github.com/probechain/go-pico/lang/types"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// mustParse asserts that the source parses without fatal errors or
// diagnostics and returns the program.
func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	prog, diags, err := Parse("test.pico", src)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", joinDiags(diags))
	}
	return prog
}

// parseDiags parses a source that must not fail fatally and returns the
// program and its diagnostics.
func parseDiags(t *testing.T, src string) (*ast.Block, []Diagnostic) {
	t.Helper()
	prog, diags, err := Parse("test.pico", src)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	return prog, diags
}

// runParser parses src with a parser the test can inspect afterwards.
func runParser(t *testing.T, src string) *Parser {
	t.Helper()
	toks, err := lexer.Tokenize("test.pico", src)
	if err != nil {
		t.Fatal(err)
	}
	p, err := newParser(toks)
	if err != nil {
		t.Fatal(err)
	}
	p.parseProgram()
	return p
}

func joinDiags(diags []Diagnostic) string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.String()
	}
	return strings.Join(msgs, "\n")
}

func countCode(diags []Diagnostic, code Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

// wantDiags checks the exact sequence of diagnostic codes.
func wantDiags(t *testing.T, diags []Diagnostic, codes ...Code) {
	t.Helper()
	if len(diags) != len(codes) {
		t.Fatalf("got %d diagnostics, want %d:\n%s", len(diags), len(codes), joinDiags(diags))
	}
	for i, c := range codes {
		if diags[i].Code != c {
			t.Errorf("diagnostic[%d]: code = %s, want %s (%s)", i, diags[i].Code, c, diags[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func TestParseDeclarations(t *testing.T) {
	prog := mustParse(t, "int x = 5\nfloat y\nfloat z = 2.5")
	if len(prog.Statements) != 3 {
		t.Fatalf("want 3 statements, got %d", len(prog.Statements))
	}
	x := prog.Statements[0].(*ast.Declaration)
	if x.Name != "x" || x.Type != types.Int || x.Init == nil {
		t.Errorf("bad declaration %s", x)
	}
	y := prog.Statements[1].(*ast.Declaration)
	if y.Type != types.Float || y.Init != nil {
		t.Errorf("bad declaration %s", y)
	}
	z := prog.Statements[2].(*ast.Declaration)
	if z.Init.Type() != types.Float {
		t.Errorf("initializer type = %s, want float", z.Init.Type())
	}
}

func TestParseAssignment(t *testing.T) {
	prog := mustParse(t, "int x\nx = 4 * 2")
	a, ok := prog.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", prog.Statements[1])
	}
	if a.Name != "x" || a.Value.Type() != types.Int {
		t.Errorf("bad assignment %s", a)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "int x = 1\nif x == 1 { x = 2 } else { x = 3 x = 4 }")
	s, ok := prog.Statements[1].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Statements[1])
	}
	if s.Condition.Operator != token.EQ {
		t.Errorf("operator = %s, want ==", s.Condition.Operator)
	}
	if len(s.Then.Statements) != 1 || s.Else == nil || len(s.Else.Statements) != 2 {
		t.Errorf("unexpected branches: %s", s)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	prog := mustParse(t, "int x\nif x > 0 { }")
	s := prog.Statements[1].(*ast.IfStatement)
	if s.Else != nil {
		t.Error("expected nil else block")
	}
	if len(s.Then.Statements) != 0 {
		t.Error("expected empty then block")
	}
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, "int i = 0\nwhile i < 10 { i = i + 1 }")
	w, ok := prog.Statements[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", prog.Statements[1])
	}
	if w.Condition.Operator != token.LT || len(w.Body.Statements) != 1 {
		t.Errorf("bad while %s", w)
	}
}

func TestParseFunctionCall(t *testing.T) {
	prog := mustParse(t, "int a = 1\nprint(a, 2.5, a + 1)\nflush()")
	call := prog.Statements[1].(*ast.FunctionCall)
	if call.Name != "print" || len(call.Args) != 3 {
		t.Fatalf("bad call %s", call)
	}
	wantTypes := []types.Type{types.Int, types.Float, types.Int}
	for i, w := range wantTypes {
		if call.Args[i].Type() != w {
			t.Errorf("arg %d type = %s, want %s", i, call.Args[i].Type(), w)
		}
	}
	if empty := prog.Statements[2].(*ast.FunctionCall); len(empty.Args) != 0 {
		t.Errorf("want no args, got %d", len(empty.Args))
	}
}

func TestNestedBlocks(t *testing.T) {
	src := `int n = 3
while n > 0 {
	if n == 2 {
		float half = 1.5
		half = half * 2.0
	} else {
		n = n - 1
	}
	n = n - 1
}`
	prog := mustParse(t, src)
	w := prog.Statements[1].(*ast.WhileStatement)
	if len(w.Body.Statements) != 2 {
		t.Fatalf("want 2 statements in loop body, got %d", len(w.Body.Statements))
	}
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func TestPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"int a = 1 + 2 * 3", "(1 + (2 * 3))"},
		{"int a = (1 + 2) * 3", "((1 + 2) * 3)"},
		{"int a = 1 - 2 - 3", "((1 - 2) - 3)"},
		{"int a = 8 / 4 / 2", "((8 / 4) / 2)"},
		{"int a = 1 - (2 - 3)", "(1 - (2 - 3))"},
		{"int a = 1 * 2 + 3 * 4", "((1 * 2) + (3 * 4))"},
	}
	for _, c := range cases {
		prog := mustParse(t, c.src)
		got := prog.Statements[0].(*ast.Declaration).Init.String()
		if got != c.want {
			t.Errorf("%q: got %s, want %s", c.src, got, c.want)
		}
	}
}

func TestLeftTypeInheritance(t *testing.T) {
	prog, diags := parseDiags(t, "float f = 1.0\nint i = 2\nf = f * i\ni = i + f")
	wantDiags(t, diags, TypeMismatch, TypeMismatch)

	fi := prog.Statements[2].(*ast.Assignment).Value
	if fi.Type() != types.Float {
		t.Errorf("f * i: type = %s, want float", fi.Type())
	}
	iff := prog.Statements[3].(*ast.Assignment).Value
	if iff.Type() != types.Int {
		t.Errorf("i + f: type = %s, want int", iff.Type())
	}
}

func TestUndeclaredIdentifierHasUnknownType(t *testing.T) {
	prog, diags := parseDiags(t, "int x = y + 1")
	wantDiags(t, diags, Undeclared)
	init := prog.Statements[0].(*ast.Declaration).Init.(*ast.BinaryOperation)
	if init.Type() != types.Unknown {
		t.Errorf("type = %s, want unknown", init.Type())
	}
}

func TestMissingComparisonOperator(t *testing.T) {
	prog, diags := parseDiags(t, "int x = 1\nif x { x = 2 }")
	wantDiags(t, diags, MissingOperator)
	s := prog.Statements[1].(*ast.IfStatement)
	if s.Condition.Operator != token.ILLEGAL || s.Condition.Right != nil {
		t.Errorf("unexpected condition %s", s.Condition)
	}
	if len(s.Then.Statements) != 1 {
		t.Errorf("then block lost its statement")
	}
}

func TestConditionTypeMismatch(t *testing.T) {
	_, diags := parseDiags(t, "int x = 1\nwhile x < 2.5 { }")
	wantDiags(t, diags, TypeMismatch)
}

func TestUnexpectedTokenInFactor(t *testing.T) {
	prog, diags := parseDiags(t, "int x = *")
	if countCode(diags, UnexpectedToken) == 0 {
		t.Fatalf("expected an unexpected-token diagnostic, got:\n%s", joinDiags(diags))
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Statements))
	}
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestUnexpectedStatementToken(t *testing.T) {
	prog, diags := parseDiags(t, "int x = 1\n} x = 2")
	wantDiags(t, diags, UnexpectedToken)
	if len(prog.Statements) != 2 {
		t.Errorf("want 2 statements, got %d", len(prog.Statements))
	}
}

func TestIdentifierWithoutAssignOrCall(t *testing.T) {
	prog, diags := parseDiags(t, "int x\nx x = 1")
	wantDiags(t, diags, UnexpectedToken)
	if len(prog.Statements) != 2 {
		t.Errorf("want 2 statements, got %d", len(prog.Statements))
	}
}

func TestDeclarationWithoutIdentifier(t *testing.T) {
	prog, diags := parseDiags(t, "int = 5")
	if len(diags) == 0 || diags[0].Code != ExpectedToken {
		t.Fatalf("want leading expected-token diagnostic, got:\n%s", joinDiags(diags))
	}
	if len(prog.Statements) != 0 {
		t.Errorf("want no statements, got %d", len(prog.Statements))
	}
}

func TestElseMissingCloseBrace(t *testing.T) {
	p := runParser(t, "int x = 1\nif x == 1 { x = 2 } else { x = 3")
	wantDiags(t, p.diags, ExpectedToken)
	if d := p.symbols.Depth(); d != 1 {
		t.Errorf("scope depth = %d, want 1", d)
	}
	if l := p.symbols.Live(); l != 1 {
		t.Errorf("live scopes = %d, want 1", l)
	}
}

func TestElseMissingCloseBraceDropsStatement(t *testing.T) {
	prog, _ := parseDiags(t, "int x = 1\nif x == 1 { } else { x = 3")
	if len(prog.Statements) != 1 {
		t.Errorf("want only the declaration, got %d statements", len(prog.Statements))
	}
}

func TestThenMissingBraces(t *testing.T) {
	_, diags := parseDiags(t, "int x\nwhile x < 1 x = 2")
	if countCode(diags, ExpectedToken) != 2 {
		t.Errorf("want two expected-token diagnostics, got:\n%s", joinDiags(diags))
	}
}

// ---------------------------------------------------------------------------
// Fatal errors
// ---------------------------------------------------------------------------

func TestFatalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"call missing rparen", "f(1", ErrExpectedToken},
		{"call missing comma", "f(1 2)", ErrExpectedToken},
		{"unclosed paren", "int x = (1 + 2", ErrExpectedToken},
		{"malformed float", "float x = 3.1.4", lexer.ErrMalformedNumber},
		{"illegal char", "int x = 1 @", lexer.ErrIllegalChar},
		{"lone bang", "int x = 1\nif x ! 2 { }", lexer.ErrIllegalChar},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, _, err := Parse("test.pico", c.src)
			if err == nil {
				t.Fatal("expected a fatal error")
			}
			if !errors.Is(err, c.want) {
				t.Errorf("error = %v, want %v", err, c.want)
			}
			if prog != nil {
				t.Error("fatal parse must not return a program")
			}
		})
	}
}

func TestFatalErrorKeepsDiagnostics(t *testing.T) {
	_, diags, err := Parse("test.pico", "y = 1\nf(y")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Want != token.RPAREN || perr.Got.Kind != token.EOF {
		t.Errorf("unexpected error %v", perr)
	}
	wantDiags(t, diags, Undeclared, Undeclared)
}

func TestEmptyTokenStream(t *testing.T) {
	if _, _, err := ParseTokens(nil); !errors.Is(err, ErrNoTokens) {
		t.Errorf("error = %v, want ErrNoTokens", err)
	}
}

func TestTokenStreamWithoutEOF(t *testing.T) {
	toks := []token.Token{
		{Kind: token.INTKW, Literal: "int"},
		{Kind: token.IDENT, Literal: "x"},
	}
	prog, diags, err := ParseTokens(toks)
	if err != nil || len(diags) != 0 {
		t.Fatalf("err = %v, diags = %v", err, diags)
	}
	if len(prog.Statements) != 1 {
		t.Errorf("want 1 statement, got %d", len(prog.Statements))
	}
	if len(toks) != 2 {
		t.Error("caller's slice was modified")
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := mustParse(t, "  \n\n ")
	if len(prog.Statements) != 0 {
		t.Errorf("want no statements, got %d", len(prog.Statements))
	}
}
