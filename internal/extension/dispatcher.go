package extension

import (
	"io"
	"log/slog"

	"github.com/funvibe/lynx/internal/ast"
)

// Dispatcher fans a single hook invocation out to every extension in the
// registry's current view and combines the answers. It implements
// Extension itself, so a whole dispatcher can be registered as one handler
// inside another one.
//
// Aggregation rules per hook kind:
//
//   - boolean hooks short-circuit: the first extension returning true
//     claims the event and later extensions are not consulted;
//   - HandleAmbiguousMethods threads the candidate list through the
//     extensions and stops once it is narrowed to one candidate or fewer;
//   - HandleMissingMethod concatenates every extension's candidates;
//   - the remaining hooks are broadcasts with no result.
//
// Extension panics are not recovered: a broken extension mid-dispatch
// would otherwise leave a half-combined answer behind.
type Dispatcher struct {
	reg    *Registry
	logger *slog.Logger
}

var _ Extension = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher over reg. A nil logger disables tracing.
func NewDispatcher(reg *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{reg: reg, logger: logger}
}

// Registry returns the registry this dispatcher routes over.
func (d *Dispatcher) Registry() *Registry { return d.reg }

func (d *Dispatcher) HandleUnresolvedVariable(vexp *ast.VariableExpression) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.HandleUnresolvedVariable(vexp)
		return handled
	})
	if handled {
		d.logger.Debug("unresolved variable claimed by extension", "name", vexp.Name)
	}
	return handled
}

func (d *Dispatcher) HandleUnresolvedProperty(pexp *ast.PropertyExpression) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.HandleUnresolvedProperty(pexp)
		return handled
	})
	return handled
}

func (d *Dispatcher) HandleUnresolvedAttribute(aexp *ast.AttributeExpression) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.HandleUnresolvedAttribute(aexp)
		return handled
	})
	return handled
}

func (d *Dispatcher) HandleIncompatibleAssignment(lhs, rhs *ast.ClassNode, expr ast.Expression) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.HandleIncompatibleAssignment(lhs, rhs, expr)
		return handled
	})
	return handled
}

func (d *Dispatcher) HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred *ast.ClassNode) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.HandleIncompatibleReturnType(ret, inferred)
		return handled
	})
	return handled
}

// HandleAmbiguousMethods lets each extension narrow the candidate list in
// turn. Narrowing stops as soon as at most one candidate remains.
// Extensions receive the current list, not the original one.
func (d *Dispatcher) HandleAmbiguousMethods(candidates []*ast.MethodNode, origin ast.Expression) []*ast.MethodNode {
	result := candidates
	d.reg.each(func(e Extension) bool {
		if len(result) <= 1 {
			return true
		}
		result = e.HandleAmbiguousMethods(result, origin)
		return false
	})
	return result
}

// HandleMissingMethod collects synthesized candidates from every extension,
// in view order. Candidates without a declaring class are normalized to
// Object so downstream consumers never see a nil owner.
func (d *Dispatcher) HandleMissingMethod(receiver *ast.ClassNode, name string, args []ast.Expression, argTypes []*ast.ClassNode, call *ast.MethodCallExpression) []*ast.MethodNode {
	var result []*ast.MethodNode
	d.reg.each(func(e Extension) bool {
		for _, mn := range e.HandleMissingMethod(receiver, name, args, argTypes, call) {
			if mn.DeclaringClass == nil {
				mn.DeclaringClass = ast.ObjectClass
			}
			result = append(result, mn)
		}
		return false
	})
	return result
}

func (d *Dispatcher) BeforeVisitClass(node *ast.ClassNode) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.BeforeVisitClass(node)
		return handled
	})
	return handled
}

func (d *Dispatcher) AfterVisitClass(node *ast.ClassNode) {
	d.reg.each(func(e Extension) bool {
		e.AfterVisitClass(node)
		return false
	})
}

func (d *Dispatcher) BeforeVisitMethod(node *ast.MethodNode) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.BeforeVisitMethod(node)
		return handled
	})
	return handled
}

func (d *Dispatcher) AfterVisitMethod(node *ast.MethodNode) {
	d.reg.each(func(e Extension) bool {
		e.AfterVisitMethod(node)
		return false
	})
}

func (d *Dispatcher) BeforeMethodCall(call *ast.MethodCallExpression) bool {
	handled := false
	d.reg.each(func(e Extension) bool {
		handled = e.BeforeMethodCall(call)
		return handled
	})
	return handled
}

func (d *Dispatcher) AfterMethodCall(call *ast.MethodCallExpression) {
	d.reg.each(func(e Extension) bool {
		e.AfterMethodCall(call)
		return false
	})
}

func (d *Dispatcher) OnMethodSelection(expr ast.Expression, target *ast.MethodNode) {
	d.reg.each(func(e Extension) bool {
		e.OnMethodSelection(expr, target)
		return false
	})
}

// Setup broadcasts session start. Extensions registered into the global
// list from inside a Setup implementation are picked up by this same
// broadcast; see Registry.each.
func (d *Dispatcher) Setup() {
	d.reg.each(func(e Extension) bool {
		e.Setup()
		return false
	})
}

// Finish broadcasts session end.
func (d *Dispatcher) Finish() {
	d.reg.each(func(e Extension) bool {
		e.Finish()
		return false
	})
}
