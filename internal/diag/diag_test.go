package diag

import (
	"strings"
	"testing"

	"github.com/funvibe/lynx/internal/ast"
)

func TestBagAccumulates(t *testing.T) {
	var b Bag
	b.Addf(ast.Position{Line: 1, Column: 2}, "unresolved variable %s", "x")
	b.Addf(ast.Position{Line: 3, Column: 4}, "ambiguous call")

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if got := b.All()[0].String(); got != "1:2: unresolved variable x" {
		t.Fatalf("first diagnostic = %q", got)
	}
}

func TestPrinterPlainOutput(t *testing.T) {
	var b Bag
	b.Addf(ast.Position{Line: 5, Column: 1}, "cannot assign String to Int")

	var sb strings.Builder
	NewPrinter(&sb).Print(&b)

	want := "error 5:1: cannot assign String to Int\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}
