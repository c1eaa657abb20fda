package load

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/lynx/internal/ast"
	"github.com/funvibe/lynx/internal/extension"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`
extensions:
  - name: first
    source: |
      function onUnresolvedVariable(name) return true end
  - name: second
    script: ext/second.lua
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Extensions) != 2 {
		t.Fatalf("parsed %d entries, want 2", len(m.Extensions))
	}
	if m.Extensions[0].Name != "first" || m.Extensions[1].Script != "ext/second.lua" {
		t.Fatalf("entries decoded wrong: %+v", m.Extensions)
	}
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"missing name",
			"extensions:\n  - source: x = 1\n",
			"name is required",
		},
		{
			"duplicate name",
			"extensions:\n  - name: a\n    source: x = 1\n  - name: a\n    source: x = 2\n",
			"duplicate name",
		},
		{
			"no script and no source",
			"extensions:\n  - name: a\n",
			"one of script or source",
		},
		{
			"script and source together",
			"extensions:\n  - name: a\n    script: a.lua\n    source: x = 1\n",
			"mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRegistersInManifestOrder(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "claim.lua")
	err := os.WriteFile(scriptPath, []byte(`
		function onUnresolvedVariable(name)
			return true
		end
	`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	m, err := ParseManifest([]byte(`
extensions:
  - name: neutral
    source: "-- declares nothing"
  - name: claimer
    script: claim.lua
`))
	if err != nil {
		t.Fatal(err)
	}

	reg := extension.NewRegistry(nil)
	exts, err := NewLoader(nil, WithBaseDir(dir)).Load(m, reg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer closeAll(exts)

	if len(exts) != 2 || exts[0].Name() != "neutral" || exts[1].Name() != "claimer" {
		t.Fatalf("loaded %v, want [neutral claimer]", exts)
	}

	d := extension.NewDispatcher(reg, nil)
	if !d.HandleUnresolvedVariable(&ast.VariableExpression{Name: "x"}) {
		t.Fatal("loaded extensions not registered for dispatch")
	}
}

func TestLoadFailureRegistersNothing(t *testing.T) {
	m, err := ParseManifest([]byte(`
extensions:
  - name: good
    source: "-- fine"
  - name: broken
    source: "function ("
`))
	if err != nil {
		t.Fatal(err)
	}

	reg := extension.NewRegistry(nil)
	if _, err := NewLoader(nil).Load(m, reg); err == nil {
		t.Fatal("broken script did not fail the load")
	}
	if reg.GlobalLen() != 0 {
		t.Fatalf("registry holds %d extensions after failed load, want 0", reg.GlobalLen())
	}
}
