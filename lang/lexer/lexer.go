// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package lexer implements a single-pass, no-backtracking scanner for the
// pico language.
//
// Design principles:
//   - ASCII-only input
//   - Whitespace and newlines are skipped, never emitted
//   - Numeric literals are decoded while scanning (INT or FLOAT)
//   - Any scanner dead end is fatal: illegal characters, a '!' that is not
//     followed by '=', and malformed numeric literals stop the scan
package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/probechain/go-pico/lang/token"
)

var (
	// ErrIllegalChar is wrapped by every *Error raised for a character that
	// cannot start a token.
	ErrIllegalChar = errors.New("illegal character")

	// ErrMalformedNumber is wrapped by every *Error raised for a numeric
	// literal with a misplaced or repeated decimal point.
	ErrMalformedNumber = errors.New("malformed numeric literal")
)

// Error is a fatal scanning error.
type Error struct {
	Pos     token.Position
	Literal string // offending character or literal text
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v %q at offset %d", e.Pos, e.Err, e.Literal, e.Pos.Offset)
}

func (e *Error) Unwrap() error { return e.Err }

// Lexer holds the state for a single-pass tokenization run.
type Lexer struct {
	filename string
	input    []byte

	// pos is the index into input of the next byte to be loaded into ch.
	// After advance(), ch == input[pos-1] and pos points one past it.
	pos  int
	line int // 1-based current line number
	col  int // 1-based current column number

	ch   byte // current character; 0 when past end
	done bool // EOF has been handed out
}

// New creates a new Lexer for the given filename and input string.
func New(filename, input string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    []byte(input),
		line:     1,
		col:      0,
	}
	l.advance()
	return l
}

// Tokenize scans the whole input and returns every token, terminated by
// exactly one EOF token. The first fatal error aborts the scan.
func Tokenize(filename, input string) ([]token.Token, error) {
	return New(filename, input).Tokenize()
}

// advance moves to the next byte in the input, updating line/column tracking.
// When the end of input is reached, ch is set to 0.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		File:   l.filename,
		Line:   l.line,
		Column: l.col,
		Offset: l.pos - 1,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\f' || l.ch == '\v' {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

// Next scans and returns the next token. Once EOF has been returned, further
// calls keep returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.atEnd() {
		l.done = true
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}
	ch := l.ch

	switch {
	case isLetter(ch):
		lit := l.readIdent()
		return token.Token{Kind: token.Lookup(lit), Literal: lit, Pos: pos}, nil

	case isDigit(ch) || ch == '.':
		return l.readNumber(pos)
	}

	l.advance() // consume ch; l.ch is now the character after it

	switch ch {
	case '=':
		if l.ch == '=' {
			l.advance()
			return makeToken(token.EQ, "==", pos), nil
		}
		return makeToken(token.ASSIGN, "=", pos), nil
	case '!':
		if l.ch == '=' {
			l.advance()
			return makeToken(token.NEQ, "!=", pos), nil
		}
		return token.Token{}, &Error{Pos: pos, Literal: "!", Err: ErrIllegalChar}
	case '+':
		return makeToken(token.PLUS, "+", pos), nil
	case '-':
		return makeToken(token.MINUS, "-", pos), nil
	case '*':
		return makeToken(token.STAR, "*", pos), nil
	case '/':
		return makeToken(token.SLASH, "/", pos), nil
	case '<':
		return makeToken(token.LT, "<", pos), nil
	case '>':
		return makeToken(token.GT, ">", pos), nil
	case '(':
		return makeToken(token.LPAREN, "(", pos), nil
	case ')':
		return makeToken(token.RPAREN, ")", pos), nil
	case ',':
		return makeToken(token.COMMA, ",", pos), nil
	case ':':
		return makeToken(token.COLON, ":", pos), nil
	case '{':
		return makeToken(token.LBRACE, "{", pos), nil
	case '}':
		return makeToken(token.RBRACE, "}", pos), nil
	}
	return token.Token{}, &Error{Pos: pos, Literal: string([]byte{ch}), Err: ErrIllegalChar}
}

// Tokenize returns all remaining tokens, including the final EOF.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func makeToken(kind token.Kind, literal string, pos token.Position) token.Token {
	return token.Token{Kind: kind, Literal: literal, Pos: pos}
}

// readIdent consumes a maximal run of letters, digits and underscores.
func (l *Lexer) readIdent() string {
	start := l.pos - 1
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.advance()
	}
	return string(l.input[start : l.pos-1])
}

// readNumber consumes a maximal run of digits and '.' characters.
//
//   - no '.'            →  INT
//   - exactly one '.'   →  FLOAT, which may neither start nor end with '.'
//   - a second '.'      →  fatal
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.pos - 1
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			dots++
			if dots > 1 {
				lit := string(l.input[start:l.pos])
				return token.Token{}, &Error{Pos: pos, Literal: lit, Err: ErrMalformedNumber}
			}
		}
		l.advance()
	}
	lit := string(l.input[start : l.pos-1])

	if dots == 0 {
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return token.Token{}, &Error{Pos: pos, Literal: lit, Err: fmt.Errorf("%w: %v", ErrMalformedNumber, err)}
		}
		return token.Token{Kind: token.INT, Literal: lit, Int: v, Pos: pos}, nil
	}
	if lit[0] == '.' || lit[len(lit)-1] == '.' {
		return token.Token{}, &Error{Pos: pos, Literal: lit, Err: ErrMalformedNumber}
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return token.Token{}, &Error{Pos: pos, Literal: lit, Err: fmt.Errorf("%w: %v", ErrMalformedNumber, err)}
	}
	return token.Token{Kind: token.FLOAT, Literal: lit, Float: v, Pos: pos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
