package ast

// ClassNode describes a class known to the checker. It doubles as the type
// representation: inferred expression types, declared variable types and
// method signatures are all ClassNode references.
type ClassNode struct {
	Name       string
	Super      *ClassNode // nil for Object and for Dynamic
	Methods    []*MethodNode
	Properties []*PropertyNode
	Fields     []*FieldNode
}

func (cn *ClassNode) String() string { return cn.Name }

// IsDerivedFrom reports whether cn is other or a (transitive) subclass of it.
func (cn *ClassNode) IsDerivedFrom(other *ClassNode) bool {
	for c := cn; c != nil; c = c.Super {
		if c == other {
			return true
		}
	}
	return false
}

// GetProperty looks up a property by name in cn and its superclasses.
func (cn *ClassNode) GetProperty(name string) *PropertyNode {
	for c := cn; c != nil; c = c.Super {
		for _, p := range c.Properties {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// GetField looks up a field by name in cn and its superclasses.
func (cn *ClassNode) GetField(name string) *FieldNode {
	for c := cn; c != nil; c = c.Super {
		for _, f := range c.Fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// GetMethods collects all methods named name declared on cn or inherited
// from its superclasses, in declaration order, subclass methods first.
func (cn *ClassNode) GetMethods(name string) []*MethodNode {
	var out []*MethodNode
	for c := cn; c != nil; c = c.Super {
		for _, m := range c.Methods {
			if m.Name == name {
				out = append(out, m)
			}
		}
	}
	return out
}

// AddMethod appends a method and records cn as its declaring class.
func (cn *ClassNode) AddMethod(m *MethodNode) {
	m.DeclaringClass = cn
	cn.Methods = append(cn.Methods, m)
}

// MethodNode describes a method signature plus (optionally) its body.
// Synthesized methods produced by extensions may leave DeclaringClass nil;
// dispatch normalizes that to ObjectClass before anything downstream sees it.
type MethodNode struct {
	Pos            Position
	Name           string
	Parameters     []*Parameter
	ReturnClass    *ClassNode
	DeclaringClass *ClassNode
	Body           *BlockStatement
}

func (mn *MethodNode) GetPos() Position { return mn.Pos }
func (mn *MethodNode) String() string {
	owner := "?"
	if mn.DeclaringClass != nil {
		owner = mn.DeclaringClass.Name
	}
	return owner + "#" + mn.Name
}

// Parameter is a single formal parameter of a method or closure.
type Parameter struct {
	Name  string
	Class *ClassNode
}

// PropertyNode is a declared property (accessor-backed member).
type PropertyNode struct {
	Name  string
	Class *ClassNode
}

// FieldNode is a declared field (direct storage member).
type FieldNode struct {
	Name  string
	Class *ClassNode
}

// Predefined classes. These are identity-compared throughout the checker,
// so there is exactly one node per predefined class.
var (
	ObjectClass  = &ClassNode{Name: "Object"}
	DynamicClass = &ClassNode{Name: "Dynamic"}
	VoidClass    = &ClassNode{Name: "Void", Super: ObjectClass}
	IntClass     = &ClassNode{Name: "Int", Super: ObjectClass}
	StringClass  = &ClassNode{Name: "String", Super: ObjectClass}
	BoolClass    = &ClassNode{Name: "Bool", Super: ObjectClass}
	ClosureClass = &ClassNode{Name: "Closure", Super: ObjectClass}
)

// MakeClass creates a user class extending super (ObjectClass when nil).
func MakeClass(name string, super *ClassNode) *ClassNode {
	if super == nil {
		super = ObjectClass
	}
	return &ClassNode{Name: name, Super: super}
}
