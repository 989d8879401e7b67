// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"gopkg.in/yaml.v3"

	"github.com/probechain/go-pico/lang/ast"
)

// yamlNode converts a syntax tree into an ordered YAML document. Each node
// becomes a mapping whose first key names the node kind.
func yamlNode(n ast.Node) *yaml.Node {
	m := &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
	switch n := n.(type) {
	case *ast.Block:
		m.str("block", "")
		m.add("statements", statementList(n.Statements))
	case *ast.Declaration:
		m.str("declaration", n.Name)
		m.str("type", n.Type.String())
		if n.Init != nil {
			m.add("init", yamlNode(n.Init))
		}
	case *ast.Assignment:
		m.str("assignment", n.Name)
		m.add("value", yamlNode(n.Value))
	case *ast.IfStatement:
		m.str("if", "")
		m.add("condition", yamlNode(n.Condition))
		m.add("then", yamlNode(n.Then))
		if n.Else != nil {
			m.add("else", yamlNode(n.Else))
		}
	case *ast.WhileStatement:
		m.str("while", "")
		m.add("condition", yamlNode(n.Condition))
		m.add("body", yamlNode(n.Body))
	case *ast.FunctionCall:
		m.str("call", n.Name)
		args := &yaml.Node{Kind: yaml.SequenceNode}
		for _, a := range n.Args {
			args.Content = append(args.Content, yamlNode(a))
		}
		m.add("args", args)
	case *ast.BooleanExpression:
		m.str("compare", n.Operator.String())
		m.add("left", exprNode(n.Left))
		if n.Right != nil {
			m.add("right", exprNode(n.Right))
		}
	case *ast.BinaryOperation:
		m.str("binary", n.Operator.String())
		m.str("type", n.Type().String())
		m.add("left", exprNode(n.Left))
		m.add("right", exprNode(n.Right))
	case *ast.Factor:
		if n.IsIdent() {
			m.str("ident", n.Name)
		} else {
			m.str("literal", n.Token.Literal)
		}
		m.str("type", n.Type().String())
	}
	return m.node
}

func exprNode(e ast.Expression) *yaml.Node {
	if e == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return yamlNode(e)
}

func statementList(stmts []ast.Statement) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range stmts {
		seq.Content = append(seq.Content, yamlNode(s))
	}
	return seq
}

type mapping struct {
	node *yaml.Node
}

func (m *mapping) add(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

func (m *mapping) str(key, value string) {
	m.add(key, &yaml.Node{Kind: yaml.ScalarNode, Value: value})
}
