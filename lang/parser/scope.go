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

	"github.com/probechain/go-pico/lang/types"
)

// GlobalScope is the id of the program-wide scope.
const GlobalScope = "global"

var (
	// ErrRedeclared is returned by Declare when the current scope already
	// binds the name.
	ErrRedeclared = errors.New("already declared in the current scope")

	// ErrGlobalScope is returned by Exit when only the program-wide scope is
	// left on the stack.
	ErrGlobalScope = errors.New("cannot exit global scope")
)

// Scope binds variable names to their declared types for one block.
type Scope struct {
	ID   string
	vars map[string]types.Type
}

func newScope(id string) *Scope {
	return &Scope{ID: id, vars: make(map[string]types.Type)}
}

// Lookup checks this scope only.
func (s *Scope) Lookup(name string) (types.Type, bool) {
	typ, ok := s.vars[name]
	return typ, ok
}

// Len returns the number of names bound in the scope.
func (s *Scope) Len() int { return len(s.vars) }

// SymbolTable is the stack of live scopes. Index 0 is the program-wide
// scope, which is created with the table and never removed; the last
// element is the current scope. live holds exactly the scopes on the stack.
type SymbolTable struct {
	stack   []*Scope
	live    map[string]*Scope
	counter int
}

// NewSymbolTable returns a table holding only the program-wide scope.
func NewSymbolTable() *SymbolTable {
	global := newScope(GlobalScope)
	return &SymbolTable{
		stack: []*Scope{global},
		live:  map[string]*Scope{GlobalScope: global},
	}
}

// Enter pushes a new, empty scope and makes it current.
func (st *SymbolTable) Enter() *Scope {
	s := newScope(fmt.Sprintf("scope_%d", st.counter))
	st.counter++
	st.stack = append(st.stack, s)
	st.live[s.ID] = s
	return s
}

// Exit pops and discards the current scope. The program-wide scope cannot
// be exited; Exit then returns ErrGlobalScope and leaves the stack as is.
func (st *SymbolTable) Exit() (*Scope, error) {
	if len(st.stack) == 1 {
		return nil, ErrGlobalScope
	}
	top := st.stack[len(st.stack)-1]
	st.stack[len(st.stack)-1] = nil
	st.stack = st.stack[:len(st.stack)-1]
	delete(st.live, top.ID)
	return top, nil
}

// Current returns the innermost scope.
func (st *SymbolTable) Current() *Scope {
	return st.stack[len(st.stack)-1]
}

// Depth returns the number of scopes on the stack, always at least 1.
func (st *SymbolTable) Depth() int { return len(st.stack) }

// Scope returns the live scope with the given id.
func (st *SymbolTable) Scope(id string) (*Scope, bool) {
	s, ok := st.live[id]
	return s, ok
}

// Live returns the number of scopes currently held by the table.
func (st *SymbolTable) Live() int { return len(st.live) }

// Declare binds name in the current scope. If the name is already bound
// there the first binding is kept and ErrRedeclared is returned. Outer
// bindings of the same name are shadowed, not touched.
func (st *SymbolTable) Declare(name string, typ types.Type) error {
	cur := st.Current()
	if _, ok := cur.vars[name]; ok {
		return ErrRedeclared
	}
	cur.vars[name] = typ
	return nil
}

// Resolve searches from the innermost scope outwards.
func (st *SymbolTable) Resolve(name string) (types.Type, bool) {
	for i := len(st.stack) - 1; i >= 0; i-- {
		if typ, ok := st.stack[i].vars[name]; ok {
			return typ, true
		}
	}
	return types.Unknown, false
}
