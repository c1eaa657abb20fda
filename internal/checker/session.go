// Package checker walks classes and methods, resolves names and calls,
// and raises extension hooks at every point the resolution fails or a
// lifecycle boundary is crossed. It performs flow-insensitive checking
// over declared and literal classes; inference beyond that is not its job.
package checker

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/lynx/internal/ast"
	"github.com/funvibe/lynx/internal/diag"
	"github.com/funvibe/lynx/internal/extension"
)

// Session checks a set of classes against one extension registry. A
// session is single-use: construct, optionally attach closure-local
// extensions, call Check once, read the diagnostics.
type Session struct {
	// ID tags the session in logs.
	ID uuid.UUID

	// Diags collects everything no extension claimed.
	Diags *diag.Bag

	reg    *extension.Registry
	ext    *extension.Dispatcher
	logger *slog.Logger

	scope  *scope
	method *ast.MethodNode // enclosing method, for return checks

	closureExts map[*ast.ClosureExpression][]extension.Extension
}

// NewSession creates a session dispatching over reg. A nil logger
// disables logging.
func NewSession(reg *extension.Registry, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.New()
	return &Session{
		ID:          id,
		Diags:       &diag.Bag{},
		reg:         reg,
		ext:         extension.NewDispatcher(reg, logger),
		logger:      logger.With("session", id.String()),
		closureExts: make(map[*ast.ClosureExpression][]extension.Extension),
	}
}

// Registry returns the session's registry, for registration during Setup
// or between sessions sharing one registry.
func (s *Session) Registry() *extension.Registry { return s.reg }

// AttachClosureExtensions arranges for exts to be active, as a local
// scope, only while the closure's body is being checked.
func (s *Session) AttachClosureExtensions(node *ast.ClosureExpression, exts []extension.Extension) {
	s.closureExts[node] = exts
}

// Check runs the session: Setup broadcast, class walk, Finish broadcast.
// It returns the accumulated diagnostics.
func (s *Session) Check(classes ...*ast.ClassNode) *diag.Bag {
	s.logger.Debug("session start", "classes", len(classes))
	s.ext.Setup()
	for _, c := range classes {
		s.visitClass(c)
	}
	s.ext.Finish()
	s.logger.Debug("session end", "diagnostics", s.Diags.Len())
	return s.Diags
}

func (s *Session) visitClass(c *ast.ClassNode) {
	if s.ext.BeforeVisitClass(c) {
		return
	}
	for _, m := range c.Methods {
		s.visitMethod(m)
	}
	s.ext.AfterVisitClass(c)
}

func (s *Session) visitMethod(m *ast.MethodNode) {
	if s.ext.BeforeVisitMethod(m) {
		return
	}
	outerScope, outerMethod := s.scope, s.method
	s.scope, s.method = newScope(nil), m
	if m.DeclaringClass != nil {
		s.scope.define("this", m.DeclaringClass)
	}
	for _, p := range m.Parameters {
		s.scope.define(p.Name, paramClass(p))
	}
	if m.Body != nil {
		s.checkBlock(m.Body)
	}
	s.scope, s.method = outerScope, outerMethod
	s.ext.AfterVisitMethod(m)
}

func (s *Session) checkBlock(b *ast.BlockStatement) {
	s.scope = newScope(s.scope)
	for _, stmt := range b.Statements {
		s.checkStatement(stmt)
	}
	s.scope = s.scope.outer
}

func (s *Session) checkStatement(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.VarStatement:
		s.checkVar(st)
	case *ast.ReturnStatement:
		s.checkReturn(st)
	case *ast.ExpressionStatement:
		s.inferExpression(st.Expression)
	case *ast.BlockStatement:
		s.checkBlock(st)
	}
}

func (s *Session) checkVar(st *ast.VarStatement) {
	declared := st.DeclaredClass
	var inferred *ast.ClassNode
	if st.Value != nil {
		inferred = s.inferExpression(st.Value)
	}
	if declared == nil {
		// No annotation: the variable takes the initializer's class.
		declared = inferred
		if declared == nil {
			declared = ast.DynamicClass
		}
	} else if inferred != nil && !assignable(declared, inferred) {
		if !s.ext.HandleIncompatibleAssignment(declared, inferred, st.Value) {
			s.Diags.Addf(st.Pos, "cannot assign %s to %s in declaration of %s", inferred, declared, st.Name)
		}
	}
	s.scope.define(st.Name, declared)
}

func (s *Session) checkReturn(st *ast.ReturnStatement) {
	inferred := ast.VoidClass
	if st.Value != nil {
		inferred = s.inferExpression(st.Value)
	}
	declared := ast.DynamicClass
	if s.method != nil && s.method.ReturnClass != nil {
		declared = s.method.ReturnClass
	}
	if !assignable(declared, inferred) {
		if !s.ext.HandleIncompatibleReturnType(st, inferred) {
			s.Diags.Addf(st.Pos, "cannot return %s from method declared to return %s", inferred, declared)
		}
	}
}

func (s *Session) inferExpression(expr ast.Expression) *ast.ClassNode {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return ast.IntClass
	case *ast.StringLiteral:
		return ast.StringClass
	case *ast.BoolLiteral:
		return ast.BoolClass
	case *ast.VariableExpression:
		return s.inferVariable(e)
	case *ast.PropertyExpression:
		return s.inferProperty(e)
	case *ast.AttributeExpression:
		return s.inferAttribute(e)
	case *ast.AssignExpression:
		return s.inferAssign(e)
	case *ast.ClosureExpression:
		return s.inferClosure(e)
	case *ast.MethodCallExpression:
		return s.inferCall(e)
	}
	return ast.DynamicClass
}

func (s *Session) inferVariable(e *ast.VariableExpression) *ast.ClassNode {
	if c, ok := s.scope.resolve(e.Name); ok {
		return c
	}
	if !s.ext.HandleUnresolvedVariable(e) {
		s.Diags.Addf(e.Pos, "unresolved variable %s", e.Name)
	}
	return ast.DynamicClass
}

func (s *Session) inferProperty(e *ast.PropertyExpression) *ast.ClassNode {
	receiver := s.inferExpression(e.Receiver)
	if receiver == ast.DynamicClass {
		return ast.DynamicClass
	}
	if p := receiver.GetProperty(e.Name); p != nil {
		return memberClass(p.Class)
	}
	if !s.ext.HandleUnresolvedProperty(e) {
		s.Diags.Addf(e.Pos, "unresolved property %s on %s", e.Name, receiver)
	}
	return ast.DynamicClass
}

func (s *Session) inferAttribute(e *ast.AttributeExpression) *ast.ClassNode {
	receiver := s.inferExpression(e.Receiver)
	if receiver == ast.DynamicClass {
		return ast.DynamicClass
	}
	if f := receiver.GetField(e.Name); f != nil {
		return memberClass(f.Class)
	}
	if !s.ext.HandleUnresolvedAttribute(e) {
		s.Diags.Addf(e.Pos, "unresolved attribute %s on %s", e.Name, receiver)
	}
	return ast.DynamicClass
}

func (s *Session) inferAssign(e *ast.AssignExpression) *ast.ClassNode {
	target := s.inferExpression(e.Target)
	value := s.inferExpression(e.Value)
	if !assignable(target, value) {
		if !s.ext.HandleIncompatibleAssignment(target, value, e) {
			s.Diags.Addf(e.Pos, "cannot assign %s to %s", value, target)
		}
	}
	return value
}

// inferClosure checks the closure body. Extensions attached to the node
// are active as a local scope for exactly the body's duration.
func (s *Session) inferClosure(e *ast.ClosureExpression) *ast.ClassNode {
	if locals, ok := s.closureExts[e]; ok {
		s.reg.PushLocal(locals)
		defer s.reg.PopLocal()
	}
	outerScope := s.scope
	s.scope = newScope(s.scope)
	for _, p := range e.Parameters {
		s.scope.define(p.Name, paramClass(p))
	}
	if e.Body != nil {
		s.checkBlock(e.Body)
	}
	s.scope = outerScope
	return ast.ClosureClass
}

func (s *Session) inferCall(e *ast.MethodCallExpression) *ast.ClassNode {
	if s.ext.BeforeMethodCall(e) {
		// An extension claimed the whole call; skip checking it.
		return ast.DynamicClass
	}
	defer s.ext.AfterMethodCall(e)

	receiver := s.inferExpression(e.Receiver)
	argTypes := make([]*ast.ClassNode, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = s.inferExpression(a)
	}
	if receiver == ast.DynamicClass {
		return ast.DynamicClass
	}

	candidates := matchArguments(receiver.GetMethods(e.Name), argTypes)
	if len(candidates) == 0 {
		candidates = s.ext.HandleMissingMethod(receiver, e.Name, e.Args, argTypes, e)
		if len(candidates) == 0 {
			s.Diags.Addf(e.Pos, "cannot find method %s on %s", e.Name, receiver)
			return ast.DynamicClass
		}
	}
	if len(candidates) > 1 {
		candidates = s.ext.HandleAmbiguousMethods(candidates, e)
		if len(candidates) != 1 {
			s.Diags.Addf(e.Pos, "ambiguous call to %s on %s (%d candidates)", e.Name, receiver, len(candidates))
			return ast.DynamicClass
		}
	}

	target := candidates[0]
	s.ext.OnMethodSelection(e, target)
	return memberClass(target.ReturnClass)
}

// matchArguments keeps the methods whose arity matches and whose every
// parameter accepts the corresponding argument class.
func matchArguments(methods []*ast.MethodNode, argTypes []*ast.ClassNode) []*ast.MethodNode {
	var out []*ast.MethodNode
	for _, m := range methods {
		if len(m.Parameters) != len(argTypes) {
			continue
		}
		ok := true
		for i, p := range m.Parameters {
			if !assignable(paramClass(p), argTypes[i]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// assignable reports whether a value of class rhs can be bound to a slot
// declared as lhs.
func assignable(lhs, rhs *ast.ClassNode) bool {
	if lhs == ast.DynamicClass || rhs == ast.DynamicClass {
		return true
	}
	return rhs.IsDerivedFrom(lhs)
}

func paramClass(p *ast.Parameter) *ast.ClassNode {
	return memberClass(p.Class)
}

func memberClass(c *ast.ClassNode) *ast.ClassNode {
	if c == nil {
		return ast.DynamicClass
	}
	return c
}
