package extension

import "github.com/funvibe/lynx/internal/ast"

// Hooks adapts plain functions into an Extension. Nil fields behave like
// the corresponding Base method, so callers set only the hooks they need:
//
//	reg.AddGlobal(&extension.Hooks{
//		OnUnresolvedVariable: func(v *ast.VariableExpression) bool {
//			return v.Name == "it"
//		},
//	})
type Hooks struct {
	OnSetup  func()
	OnFinish func()

	OnUnresolvedVariable  func(*ast.VariableExpression) bool
	OnUnresolvedProperty  func(*ast.PropertyExpression) bool
	OnUnresolvedAttribute func(*ast.AttributeExpression) bool

	OnIncompatibleAssignment func(lhs, rhs *ast.ClassNode, expr ast.Expression) bool
	OnIncompatibleReturnType func(*ast.ReturnStatement, *ast.ClassNode) bool

	OnAmbiguousMethods func([]*ast.MethodNode, ast.Expression) []*ast.MethodNode
	OnMissingMethod    func(*ast.ClassNode, string, []ast.Expression, []*ast.ClassNode, *ast.MethodCallExpression) []*ast.MethodNode

	OnBeforeVisitClass func(*ast.ClassNode) bool
	OnAfterVisitClass  func(*ast.ClassNode)

	OnBeforeVisitMethod func(*ast.MethodNode) bool
	OnAfterVisitMethod  func(*ast.MethodNode)

	OnBeforeMethodCall func(*ast.MethodCallExpression) bool
	OnAfterMethodCall  func(*ast.MethodCallExpression)

	OnSelection func(ast.Expression, *ast.MethodNode)
}

var _ Extension = (*Hooks)(nil)

func (h *Hooks) Setup() {
	if h.OnSetup != nil {
		h.OnSetup()
	}
}

func (h *Hooks) Finish() {
	if h.OnFinish != nil {
		h.OnFinish()
	}
}

func (h *Hooks) HandleUnresolvedVariable(vexp *ast.VariableExpression) bool {
	if h.OnUnresolvedVariable != nil {
		return h.OnUnresolvedVariable(vexp)
	}
	return false
}

func (h *Hooks) HandleUnresolvedProperty(pexp *ast.PropertyExpression) bool {
	if h.OnUnresolvedProperty != nil {
		return h.OnUnresolvedProperty(pexp)
	}
	return false
}

func (h *Hooks) HandleUnresolvedAttribute(aexp *ast.AttributeExpression) bool {
	if h.OnUnresolvedAttribute != nil {
		return h.OnUnresolvedAttribute(aexp)
	}
	return false
}

func (h *Hooks) HandleIncompatibleAssignment(lhs, rhs *ast.ClassNode, expr ast.Expression) bool {
	if h.OnIncompatibleAssignment != nil {
		return h.OnIncompatibleAssignment(lhs, rhs, expr)
	}
	return false
}

func (h *Hooks) HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred *ast.ClassNode) bool {
	if h.OnIncompatibleReturnType != nil {
		return h.OnIncompatibleReturnType(ret, inferred)
	}
	return false
}

func (h *Hooks) HandleAmbiguousMethods(candidates []*ast.MethodNode, origin ast.Expression) []*ast.MethodNode {
	if h.OnAmbiguousMethods != nil {
		return h.OnAmbiguousMethods(candidates, origin)
	}
	return candidates
}

func (h *Hooks) HandleMissingMethod(receiver *ast.ClassNode, name string, args []ast.Expression, argTypes []*ast.ClassNode, call *ast.MethodCallExpression) []*ast.MethodNode {
	if h.OnMissingMethod != nil {
		return h.OnMissingMethod(receiver, name, args, argTypes, call)
	}
	return nil
}

func (h *Hooks) BeforeVisitClass(node *ast.ClassNode) bool {
	if h.OnBeforeVisitClass != nil {
		return h.OnBeforeVisitClass(node)
	}
	return false
}

func (h *Hooks) AfterVisitClass(node *ast.ClassNode) {
	if h.OnAfterVisitClass != nil {
		h.OnAfterVisitClass(node)
	}
}

func (h *Hooks) BeforeVisitMethod(node *ast.MethodNode) bool {
	if h.OnBeforeVisitMethod != nil {
		return h.OnBeforeVisitMethod(node)
	}
	return false
}

func (h *Hooks) AfterVisitMethod(node *ast.MethodNode) {
	if h.OnAfterVisitMethod != nil {
		h.OnAfterVisitMethod(node)
	}
}

func (h *Hooks) BeforeMethodCall(call *ast.MethodCallExpression) bool {
	if h.OnBeforeMethodCall != nil {
		return h.OnBeforeMethodCall(call)
	}
	return false
}

func (h *Hooks) AfterMethodCall(call *ast.MethodCallExpression) {
	if h.OnAfterMethodCall != nil {
		h.OnAfterMethodCall(call)
	}
}

func (h *Hooks) OnMethodSelection(expr ast.Expression, target *ast.MethodNode) {
	if h.OnSelection != nil {
		h.OnSelection(expr, target)
	}
}
