package ast

import "fmt"

// Position identifies a source location. The zero value means "unknown",
// which is what synthesized nodes carry.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is the base interface for all AST nodes.
type Node interface {
	GetPos() Position
	String() string
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}
