// Package script runs Lua scripts as type-checking extensions.
//
// A script declares global functions named after the hooks it wants to
// answer; anything it does not declare keeps the neutral default. The
// surface is deliberately string-shaped — scripts see class and method
// names, not AST nodes — which is enough for the "relax this rule for
// these names" extensions scripts are written for.
//
//	function onUnresolvedVariable(name)
//	    return name == "it"
//	end
//
//	function onMissingMethod(receiver, name, argTypes)
//	    if receiver == "Robot" then
//	        return { { name = name, returns = "Dynamic" } }
//	    end
//	end
package script

import (
	"fmt"
	"io"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/funvibe/lynx/internal/ast"
	"github.com/funvibe/lynx/internal/extension"
)

// Hook function names a script may declare.
const (
	fnSetup                  = "setup"
	fnFinish                 = "finish"
	fnUnresolvedVariable     = "onUnresolvedVariable"
	fnUnresolvedProperty     = "onUnresolvedProperty"
	fnUnresolvedAttribute    = "onUnresolvedAttribute"
	fnIncompatibleAssignment = "onIncompatibleAssignment"
	fnIncompatibleReturnType = "onIncompatibleReturnType"
	fnAmbiguousMethods       = "onAmbiguousMethods"
	fnMissingMethod          = "onMissingMethod"
	fnBeforeVisitClass       = "beforeVisitClass"
	fnAfterVisitClass        = "afterVisitClass"
	fnBeforeVisitMethod      = "beforeVisitMethod"
	fnAfterVisitMethod       = "afterVisitMethod"
	fnBeforeMethodCall       = "beforeMethodCall"
	fnAfterMethodCall        = "afterMethodCall"
	fnMethodSelection        = "onMethodSelection"
)

// ClassResolver maps a class name a script mentions to a ClassNode.
// Returning nil falls back to Dynamic.
type ClassResolver func(name string) *ast.ClassNode

// Extension is a type-checking extension backed by one Lua script.
type Extension struct {
	extension.Base

	name    string
	state   *lua.LState
	hooks   map[string]*lua.LFunction
	resolve ClassResolver
	logger  *slog.Logger
}

var _ extension.Extension = (*Extension)(nil)

// Option configures a script extension.
type Option func(*Extension)

// WithClassResolver sets the class lookup used for synthesized methods.
func WithClassResolver(r ClassResolver) Option {
	return func(e *Extension) { e.resolve = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extension) { e.logger = l }
}

// New compiles and runs source, then captures the hook functions it
// declared. name identifies the script in errors and logs.
func New(name, source string, opts ...Option) (*Extension, error) {
	e := &Extension{
		name:    name,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolve: predefinedClass,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}

	e.state = L
	e.hooks = make(map[string]*lua.LFunction)
	for _, fn := range []string{
		fnSetup, fnFinish,
		fnUnresolvedVariable, fnUnresolvedProperty, fnUnresolvedAttribute,
		fnIncompatibleAssignment, fnIncompatibleReturnType,
		fnAmbiguousMethods, fnMissingMethod,
		fnBeforeVisitClass, fnAfterVisitClass,
		fnBeforeVisitMethod, fnAfterVisitMethod,
		fnBeforeMethodCall, fnAfterMethodCall,
		fnMethodSelection,
	} {
		if lf, ok := L.GetGlobal(fn).(*lua.LFunction); ok {
			e.hooks[fn] = lf
		}
	}
	e.logger.Debug("script extension loaded", "script", name, "hooks", len(e.hooks))
	return e, nil
}

// Name returns the script identifier.
func (e *Extension) Name() string { return e.name }

// Close releases the underlying Lua state. The extension must not be
// dispatched to afterwards.
func (e *Extension) Close() {
	e.state.Close()
}

// openSafeLibraries opens base, table, string and math only. io, os,
// debug and package stay closed, and the loaders reachable from the base
// library are stubbed out.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func predefinedClass(name string) *ast.ClassNode {
	switch name {
	case "Object":
		return ast.ObjectClass
	case "Void":
		return ast.VoidClass
	case "Int":
		return ast.IntClass
	case "String":
		return ast.StringClass
	case "Bool":
		return ast.BoolClass
	case "Closure":
		return ast.ClosureClass
	}
	return nil
}

func (e *Extension) classFor(name string) *ast.ClassNode {
	if c := e.resolve(name); c != nil {
		return c
	}
	return ast.DynamicClass
}

// call invokes a hook function, returning its single result. A failing
// script is a broken extension: the error propagates as a panic rather
// than being folded into a half-combined dispatch result.
func (e *Extension) call(fn string, args ...lua.LValue) lua.LValue {
	lf, ok := e.hooks[fn]
	if !ok {
		return lua.LNil
	}
	if err := e.state.CallByParam(lua.P{Fn: lf, NRet: 1, Protect: true}, args...); err != nil {
		panic(fmt.Errorf("script %s: %s: %w", e.name, fn, err))
	}
	ret := e.state.Get(-1)
	e.state.Pop(1)
	return ret
}

func (e *Extension) callBool(fn string, args ...lua.LValue) bool {
	return lua.LVAsBool(e.call(fn, args...))
}

func className(c *ast.ClassNode) lua.LValue {
	if c == nil {
		return lua.LString(ast.DynamicClass.Name)
	}
	return lua.LString(c.Name)
}

func (e *Extension) Setup()  { e.call(fnSetup) }
func (e *Extension) Finish() { e.call(fnFinish) }

func (e *Extension) HandleUnresolvedVariable(vexp *ast.VariableExpression) bool {
	return e.callBool(fnUnresolvedVariable, lua.LString(vexp.Name))
}

func (e *Extension) HandleUnresolvedProperty(pexp *ast.PropertyExpression) bool {
	return e.callBool(fnUnresolvedProperty, lua.LString(pexp.Receiver.String()), lua.LString(pexp.Name))
}

func (e *Extension) HandleUnresolvedAttribute(aexp *ast.AttributeExpression) bool {
	return e.callBool(fnUnresolvedAttribute, lua.LString(aexp.Receiver.String()), lua.LString(aexp.Name))
}

func (e *Extension) HandleIncompatibleAssignment(lhs, rhs *ast.ClassNode, expr ast.Expression) bool {
	return e.callBool(fnIncompatibleAssignment, className(lhs), className(rhs))
}

func (e *Extension) HandleIncompatibleReturnType(ret *ast.ReturnStatement, inferred *ast.ClassNode) bool {
	return e.callBool(fnIncompatibleReturnType, className(inferred))
}

// HandleAmbiguousMethods passes the candidate descriptors to the script
// and keeps the 1-based indices it returns. No function, or a nil return,
// leaves the list unchanged.
func (e *Extension) HandleAmbiguousMethods(candidates []*ast.MethodNode, origin ast.Expression) []*ast.MethodNode {
	if _, ok := e.hooks[fnAmbiguousMethods]; !ok {
		return candidates
	}
	descs := e.state.NewTable()
	for _, mn := range candidates {
		descs.Append(lua.LString(mn.String()))
	}
	ret := e.call(fnAmbiguousMethods, descs)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return candidates
	}
	var kept []*ast.MethodNode
	tbl.ForEach(func(_, v lua.LValue) {
		if n, ok := v.(lua.LNumber); ok {
			idx := int(n) - 1
			if idx >= 0 && idx < len(candidates) {
				kept = append(kept, candidates[idx])
			}
		}
	})
	return kept
}

// HandleMissingMethod expects the script to return a list of
// { name = ..., returns = ..., owner = ... } tables. owner is optional;
// the dispatcher assigns Object to ownerless methods.
func (e *Extension) HandleMissingMethod(receiver *ast.ClassNode, name string, args []ast.Expression, argTypes []*ast.ClassNode, call *ast.MethodCallExpression) []*ast.MethodNode {
	if _, ok := e.hooks[fnMissingMethod]; !ok {
		return nil
	}
	types := e.state.NewTable()
	for _, at := range argTypes {
		types.Append(className(at))
	}
	ret := e.call(fnMissingMethod, className(receiver), lua.LString(name), types)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []*ast.MethodNode
	tbl.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		mn := &ast.MethodNode{Name: name}
		if s, ok := entry.RawGetString("name").(lua.LString); ok {
			mn.Name = string(s)
		}
		mn.ReturnClass = ast.DynamicClass
		if s, ok := entry.RawGetString("returns").(lua.LString); ok {
			mn.ReturnClass = e.classFor(string(s))
		}
		if s, ok := entry.RawGetString("owner").(lua.LString); ok {
			mn.DeclaringClass = e.classFor(string(s))
		}
		for i := range argTypes {
			mn.Parameters = append(mn.Parameters, &ast.Parameter{
				Name:  fmt.Sprintf("arg%d", i),
				Class: argTypes[i],
			})
		}
		out = append(out, mn)
	})
	return out
}

func (e *Extension) BeforeVisitClass(node *ast.ClassNode) bool {
	return e.callBool(fnBeforeVisitClass, lua.LString(node.Name))
}

func (e *Extension) AfterVisitClass(node *ast.ClassNode) {
	e.call(fnAfterVisitClass, lua.LString(node.Name))
}

func (e *Extension) BeforeVisitMethod(node *ast.MethodNode) bool {
	return e.callBool(fnBeforeVisitMethod, lua.LString(node.Name))
}

func (e *Extension) AfterVisitMethod(node *ast.MethodNode) {
	e.call(fnAfterVisitMethod, lua.LString(node.Name))
}

func (e *Extension) BeforeMethodCall(call *ast.MethodCallExpression) bool {
	return e.callBool(fnBeforeMethodCall, lua.LString(call.Name))
}

func (e *Extension) AfterMethodCall(call *ast.MethodCallExpression) {
	e.call(fnAfterMethodCall, lua.LString(call.Name))
}

func (e *Extension) OnMethodSelection(expr ast.Expression, target *ast.MethodNode) {
	e.call(fnMethodSelection, lua.LString(target.String()))
}
