// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for every non-nil node. If f returns false the children of that node are
// skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Block:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *Declaration:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *Assignment:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *FunctionCall:
		for _, a := range n.Args {
			if a != nil {
				Inspect(a, f)
			}
		}
	case *IfStatement:
		if n.Condition != nil {
			Inspect(n.Condition, f)
		}
		if n.Then != nil {
			Inspect(n.Then, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStatement:
		if n.Condition != nil {
			Inspect(n.Condition, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *BooleanExpression:
		if n.Left != nil {
			Inspect(n.Left, f)
		}
		if n.Right != nil {
			Inspect(n.Right, f)
		}
	case *BinaryOperation:
		if n.Left != nil {
			Inspect(n.Left, f)
		}
		if n.Right != nil {
			Inspect(n.Right, f)
		}
	}
}
