// Package extension implements the pluggable hook layer of the Lynx type
// checker. The checker raises a fixed set of hooks (unresolved names,
// incompatible assignments, ambiguous or missing methods, visit lifecycle);
// extensions answer some subset of them, and the Dispatcher combines the
// answers of every registered extension into the single result the checker
// acts on.
package extension

import "github.com/funvibe/lynx/internal/ast"

// Extension is the full hook surface. Implementations embed Base and
// override only the hooks they care about; the Dispatcher never probes
// which hooks an extension "really" implements.
//
// Boolean hooks return true to mean "handled": the checker suppresses its
// own error for that event. Handle hooks that return lists follow the
// aggregation rules documented on the Dispatcher.
type Extension interface {
	// Setup runs once before a checking session walks any code. An
	// extension may register further extensions from inside Setup; the
	// additions are visited before the same Setup broadcast returns.
	Setup()

	// Finish runs once after the session walk completes.
	Finish()

	HandleUnresolvedVariable(vexp *ast.VariableExpression) bool
	HandleUnresolvedProperty(pexp *ast.PropertyExpression) bool
	HandleUnresolvedAttribute(aexp *ast.AttributeExpression) bool

	HandleIncompatibleAssignment(lhs, rhs *ast.ClassNode, expr ast.Expression) bool
	HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred *ast.ClassNode) bool

	// HandleAmbiguousMethods receives the current candidate list and
	// returns a (possibly narrowed) replacement. Extensions with no
	// opinion must return candidates unchanged.
	HandleAmbiguousMethods(candidates []*ast.MethodNode, origin ast.Expression) []*ast.MethodNode

	// HandleMissingMethod returns synthesized candidates for a call that
	// resolved to nothing. An empty result means "no opinion".
	HandleMissingMethod(receiver *ast.ClassNode, name string, args []ast.Expression, argTypes []*ast.ClassNode, call *ast.MethodCallExpression) []*ast.MethodNode

	BeforeVisitClass(node *ast.ClassNode) bool
	AfterVisitClass(node *ast.ClassNode)

	BeforeVisitMethod(node *ast.MethodNode) bool
	AfterVisitMethod(node *ast.MethodNode)

	BeforeMethodCall(call *ast.MethodCallExpression) bool
	AfterMethodCall(call *ast.MethodCallExpression)

	// OnMethodSelection fires when a call resolved to exactly one target.
	OnMethodSelection(expr ast.Expression, target *ast.MethodNode)
}

// Base is the neutral Extension: every boolean hook answers "not handled",
// list hooks contribute nothing, broadcasts do nothing. Embed it and
// override the hooks you need.
type Base struct{}

var _ Extension = (*Base)(nil)

func (Base) Setup()  {}
func (Base) Finish() {}

func (Base) HandleUnresolvedVariable(*ast.VariableExpression) bool { return false }
func (Base) HandleUnresolvedProperty(*ast.PropertyExpression) bool { return false }
func (Base) HandleUnresolvedAttribute(*ast.AttributeExpression) bool { return false }

func (Base) HandleIncompatibleAssignment(lhs, rhs *ast.ClassNode, expr ast.Expression) bool {
	return false
}

func (Base) HandleIncompatibleReturnType(*ast.ReturnStatement, *ast.ClassNode) bool {
	return false
}

func (Base) HandleAmbiguousMethods(candidates []*ast.MethodNode, origin ast.Expression) []*ast.MethodNode {
	return candidates
}

func (Base) HandleMissingMethod(*ast.ClassNode, string, []ast.Expression, []*ast.ClassNode, *ast.MethodCallExpression) []*ast.MethodNode {
	return nil
}

func (Base) BeforeVisitClass(*ast.ClassNode) bool { return false }
func (Base) AfterVisitClass(*ast.ClassNode)       {}

func (Base) BeforeVisitMethod(*ast.MethodNode) bool { return false }
func (Base) AfterVisitMethod(*ast.MethodNode)       {}

func (Base) BeforeMethodCall(*ast.MethodCallExpression) bool { return false }
func (Base) AfterMethodCall(*ast.MethodCallExpression)       {}

func (Base) OnMethodSelection(ast.Expression, *ast.MethodNode) {}
