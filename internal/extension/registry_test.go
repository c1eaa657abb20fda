package extension

import (
	"testing"

	"github.com/funvibe/lynx/internal/ast"
)

// traceExt records the order it was visited in.
type traceExt struct {
	Base
	name  string
	trace *[]string
}

func (t *traceExt) HandleUnresolvedVariable(*ast.VariableExpression) bool {
	*t.trace = append(*t.trace, t.name)
	return false
}

func TestDispatchViewOrder(t *testing.T) {
	var trace []string
	g1 := &traceExt{name: "g1", trace: &trace}
	g2 := &traceExt{name: "g2", trace: &trace}
	l1 := &traceExt{name: "l1", trace: &trace}

	reg := NewRegistry(nil)
	reg.AddGlobal(g1)
	reg.AddGlobal(g2)
	reg.PushLocal([]Extension{l1})

	d := NewDispatcher(reg, nil)
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})

	want := []string{"g1", "g2", "l1"}
	if len(trace) != len(want) {
		t.Fatalf("visited %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("visited %v, want %v", trace, want)
		}
	}

	reg.PopLocal()
	trace = trace[:0]
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 2 || trace[0] != "g1" || trace[1] != "g2" {
		t.Fatalf("after pop visited %v, want [g1 g2]", trace)
	}
}

func TestOnlyTopOfStackLocalDispatches(t *testing.T) {
	var trace []string
	inert := &traceExt{name: "inert", trace: &trace}
	active := &traceExt{name: "active", trace: &trace}

	reg := NewRegistry(nil)
	reg.PushLocal([]Extension{inert})
	reg.PushLocal([]Extension{active})

	d := NewDispatcher(reg, nil)
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 1 || trace[0] != "active" {
		t.Fatalf("visited %v, want [active]", trace)
	}

	reg.PopLocal()
	trace = trace[:0]
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 1 || trace[0] != "inert" {
		t.Fatalf("after pop visited %v, want [inert]", trace)
	}
}

func TestRemoveGlobalIdempotent(t *testing.T) {
	var trace []string
	e := &traceExt{name: "e", trace: &trace}

	reg := NewRegistry(nil)
	reg.AddGlobal(e)
	reg.RemoveGlobal(e)
	reg.RemoveGlobal(e) // second removal is a no-op

	d := NewDispatcher(reg, nil)
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 0 {
		t.Fatalf("removed extension still visited: %v", trace)
	}

	// Removing something never registered is a no-op too.
	reg.RemoveGlobal(&traceExt{name: "ghost", trace: &trace})
}

func TestRemoveGlobalKeepsDuplicate(t *testing.T) {
	var trace []string
	e := &traceExt{name: "e", trace: &trace}

	reg := NewRegistry(nil)
	reg.AddGlobal(e)
	reg.AddGlobal(e) // duplicates are allowed and dispatched twice
	d := NewDispatcher(reg, nil)

	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 2 {
		t.Fatalf("duplicate registration visited %d times, want 2", len(trace))
	}

	reg.RemoveGlobal(e)
	trace = trace[:0]
	d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"})
	if len(trace) != 1 {
		t.Fatalf("after one removal visited %d times, want 1", len(trace))
	}
}

func TestPopLocalEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("PopLocal on empty stack did not panic")
		}
	}()
	NewRegistry(nil).PopLocal()
}
