package ast

import (
	"fmt"
	"strings"
)

// VariableExpression is a bare identifier reference, e.g. x
type VariableExpression struct {
	Pos  Position
	Name string
}

func (ve *VariableExpression) expressionNode()  {}
func (ve *VariableExpression) GetPos() Position { return ve.Pos }
func (ve *VariableExpression) String() string   { return ve.Name }

// PropertyExpression is dot access on a receiver, e.g. obj.name
type PropertyExpression struct {
	Pos      Position
	Receiver Expression
	Name     string
}

func (pe *PropertyExpression) expressionNode()  {}
func (pe *PropertyExpression) GetPos() Position { return pe.Pos }
func (pe *PropertyExpression) String() string   { return pe.Receiver.String() + "." + pe.Name }

// AttributeExpression is direct field access, bypassing accessors, e.g. obj.@name
type AttributeExpression struct {
	Pos      Position
	Receiver Expression
	Name     string
}

func (ae *AttributeExpression) expressionNode()  {}
func (ae *AttributeExpression) GetPos() Position { return ae.Pos }
func (ae *AttributeExpression) String() string   { return ae.Receiver.String() + ".@" + ae.Name }

// MethodCallExpression is a call on a receiver, e.g. obj.run(a, b)
type MethodCallExpression struct {
	Pos      Position
	Receiver Expression
	Name     string
	Args     []Expression
}

func (mc *MethodCallExpression) expressionNode()  {}
func (mc *MethodCallExpression) GetPos() Position { return mc.Pos }
func (mc *MethodCallExpression) String() string {
	args := make([]string, len(mc.Args))
	for i, a := range mc.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", mc.Receiver.String(), mc.Name, strings.Join(args, ", "))
}

// AssignExpression assigns Value to Target, e.g. x = 1
type AssignExpression struct {
	Pos    Position
	Target Expression
	Value  Expression
}

func (as *AssignExpression) expressionNode()  {}
func (as *AssignExpression) GetPos() Position { return as.Pos }
func (as *AssignExpression) String() string   { return as.Target.String() + " = " + as.Value.String() }

// ClosureExpression is an anonymous function literal, e.g. { a -> a.run() }
type ClosureExpression struct {
	Pos        Position
	Parameters []*Parameter
	Body       *BlockStatement
}

func (ce *ClosureExpression) expressionNode()  {}
func (ce *ClosureExpression) GetPos() Position { return ce.Pos }
func (ce *ClosureExpression) String() string   { return "{ ... }" }

// IntLiteral is an integer constant.
type IntLiteral struct {
	Pos   Position
	Value int64
}

func (il *IntLiteral) expressionNode()  {}
func (il *IntLiteral) GetPos() Position { return il.Pos }
func (il *IntLiteral) String() string   { return fmt.Sprintf("%d", il.Value) }

// StringLiteral is a string constant.
type StringLiteral struct {
	Pos   Position
	Value string
}

func (sl *StringLiteral) expressionNode()  {}
func (sl *StringLiteral) GetPos() Position { return sl.Pos }
func (sl *StringLiteral) String() string   { return fmt.Sprintf("%q", sl.Value) }

// BoolLiteral is a boolean constant.
type BoolLiteral struct {
	Pos   Position
	Value bool
}

func (bl *BoolLiteral) expressionNode()  {}
func (bl *BoolLiteral) GetPos() Position { return bl.Pos }
func (bl *BoolLiteral) String() string   { return fmt.Sprintf("%t", bl.Value) }
