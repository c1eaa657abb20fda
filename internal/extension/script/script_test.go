package script

import (
	"testing"

	"github.com/funvibe/lynx/internal/ast"
	"github.com/funvibe/lynx/internal/extension"
)

func mustLoad(t *testing.T, source string) *Extension {
	t.Helper()
	e, err := New("test.lua", source)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestBooleanHooks(t *testing.T) {
	e := mustLoad(t, `
		function onUnresolvedVariable(name)
			return name == "it"
		end

		function onIncompatibleAssignment(lhs, rhs)
			return lhs == "Int" and rhs == "String"
		end
	`)

	if !e.HandleUnresolvedVariable(&ast.VariableExpression{Name: "it"}) {
		t.Error("script did not claim variable it")
	}
	if e.HandleUnresolvedVariable(&ast.VariableExpression{Name: "other"}) {
		t.Error("script claimed an unrelated variable")
	}
	if !e.HandleIncompatibleAssignment(ast.IntClass, ast.StringClass, nil) {
		t.Error("script did not claim Int = String assignment")
	}

	// Undeclared hooks stay neutral.
	if e.HandleUnresolvedProperty(&ast.PropertyExpression{Receiver: &ast.VariableExpression{Name: "o"}, Name: "p"}) {
		t.Error("undeclared hook returned true")
	}
}

func TestMissingMethodSynthesis(t *testing.T) {
	e := mustLoad(t, `
		function onMissingMethod(receiver, name, argTypes)
			if receiver == "Robot" then
				return {
					{ name = name, returns = "Int" },
					{ name = name .. "Async", returns = "Unmapped", owner = "Object" },
				}
			end
		end
	`)

	robot := ast.MakeClass("Robot", nil)
	call := &ast.MethodCallExpression{Receiver: &ast.VariableExpression{Name: "r"}, Name: "move"}
	got := e.HandleMissingMethod(robot, "move", nil, []*ast.ClassNode{ast.IntClass}, call)

	if len(got) != 2 {
		t.Fatalf("synthesized %d methods, want 2", len(got))
	}
	if got[0].Name != "move" || got[0].ReturnClass != ast.IntClass {
		t.Errorf("first method = %s returning %v", got[0].Name, got[0].ReturnClass)
	}
	if got[0].DeclaringClass != nil {
		t.Errorf("ownerless method owner = %v before normalization", got[0].DeclaringClass)
	}
	if len(got[0].Parameters) != 1 || got[0].Parameters[0].Class != ast.IntClass {
		t.Errorf("parameters not mirrored from arg types: %v", got[0].Parameters)
	}
	if got[1].Name != "moveAsync" || got[1].DeclaringClass != ast.ObjectClass {
		t.Errorf("second method = %s owned by %v", got[1].Name, got[1].DeclaringClass)
	}
	if got[1].ReturnClass != ast.DynamicClass {
		t.Errorf("unmapped return class = %v, want Dynamic", got[1].ReturnClass)
	}

	if res := e.HandleMissingMethod(ast.IntClass, "move", nil, nil, call); res != nil {
		t.Errorf("script contributed for the wrong receiver: %v", res)
	}
}

func TestAmbiguousMethodsKeepsIndices(t *testing.T) {
	e := mustLoad(t, `
		function onAmbiguousMethods(candidates)
			-- keep anything declared on Robot
			local kept = {}
			for i, desc in ipairs(candidates) do
				if string.find(desc, "^Robot#") then
					kept[#kept + 1] = i
				end
			end
			return kept
		end
	`)

	robot := ast.MakeClass("Robot", nil)
	m1 := &ast.MethodNode{Name: "run", DeclaringClass: ast.ObjectClass}
	m2 := &ast.MethodNode{Name: "run", DeclaringClass: robot}
	m3 := &ast.MethodNode{Name: "run", DeclaringClass: ast.ObjectClass}

	got := e.HandleAmbiguousMethods([]*ast.MethodNode{m1, m2, m3}, nil)
	if len(got) != 1 || got[0] != m2 {
		t.Fatalf("narrowed to %v, want the Robot method only", got)
	}
}

func TestSetupAndFinishRun(t *testing.T) {
	e := mustLoad(t, `
		events = ""
		function setup() events = events .. "setup;" end
		function finish() events = events .. "finish;" end
	`)

	e.Setup()
	e.Finish()

	got := e.state.GetGlobal("events").String()
	if got != "setup;finish;" {
		t.Fatalf("lifecycle events = %q, want %q", got, "setup;finish;")
	}
}

func TestScriptErrorsPropagate(t *testing.T) {
	e := mustLoad(t, `
		function onUnresolvedVariable(name)
			error("broken extension")
		end
	`)

	defer func() {
		if recover() == nil {
			t.Fatal("script error did not propagate")
		}
	}()
	e.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
}

func TestInvalidScriptFailsLoad(t *testing.T) {
	if _, err := New("bad.lua", "function ("); err == nil {
		t.Fatal("syntax error not reported at load")
	}
}

func TestWorksUnderDispatcher(t *testing.T) {
	e := mustLoad(t, `
		function onUnresolvedVariable(name)
			return name == "robot"
		end
	`)

	reg := extension.NewRegistry(nil)
	reg.AddGlobal(e)
	d := extension.NewDispatcher(reg, nil)

	if !d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "robot"}) {
		t.Fatal("dispatcher did not propagate the script claim")
	}
}
