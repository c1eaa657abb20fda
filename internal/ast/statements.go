package ast

// VarStatement declares a local variable with an optional initializer.
// A nil DeclaredClass means the declared type is Dynamic.
type VarStatement struct {
	Pos           Position
	Name          string
	DeclaredClass *ClassNode
	Value         Expression
}

func (vs *VarStatement) statementNode()   {}
func (vs *VarStatement) GetPos() Position { return vs.Pos }
func (vs *VarStatement) String() string {
	s := "var " + vs.Name
	if vs.DeclaredClass != nil {
		s += ": " + vs.DeclaredClass.Name
	}
	if vs.Value != nil {
		s += " = " + vs.Value.String()
	}
	return s
}

// ReturnStatement returns Value from the enclosing method. Value may be nil.
type ReturnStatement struct {
	Pos   Position
	Value Expression
}

func (rs *ReturnStatement) statementNode()   {}
func (rs *ReturnStatement) GetPos() Position { return rs.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// ExpressionStatement evaluates an expression for its effect.
type ExpressionStatement struct {
	Pos        Position
	Expression Expression
}

func (es *ExpressionStatement) statementNode()   {}
func (es *ExpressionStatement) GetPos() Position { return es.Pos }
func (es *ExpressionStatement) String() string   { return es.Expression.String() }

// BlockStatement is a brace-delimited statement list.
type BlockStatement struct {
	Pos        Position
	Statements []Statement
}

func (bs *BlockStatement) statementNode()   {}
func (bs *BlockStatement) GetPos() Position { return bs.Pos }
func (bs *BlockStatement) String() string   { return "{ ... }" }
