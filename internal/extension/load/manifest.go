// Package load turns a YAML manifest into a populated extension registry.
//
// The manifest lists the extension scripts a checking session enables, in
// priority order (earlier entries are consulted first):
//
//	extensions:
//	  - name: relax-robot
//	    script: ext/robot.lua
//	  - name: inline-demo
//	    source: |
//	      function onUnresolvedVariable(name)
//	          return name == "it"
//	      end
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level extension configuration.
type Manifest struct {
	// Extensions lists the enabled extensions. Order is registration
	// order, which is dispatch priority order.
	Extensions []Entry `yaml:"extensions"`
}

// Entry describes one extension.
type Entry struct {
	// Name identifies the extension in logs and errors. Required.
	Name string `yaml:"name"`

	// Script is a path to a Lua script, relative to the manifest.
	// Mutually exclusive with Source.
	Script string `yaml:"script,omitempty"`

	// Source is an inline Lua script. Mutually exclusive with Script.
	Source string `yaml:"source,omitempty"`
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadManifest loads a manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Validate checks every entry for the constraints the yaml tags document.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool)
	for i, e := range m.Extensions {
		if e.Name == "" {
			return fmt.Errorf("extensions[%d]: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("extensions[%d]: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
		if e.Script == "" && e.Source == "" {
			return fmt.Errorf("extension %q: one of script or source is required", e.Name)
		}
		if e.Script != "" && e.Source != "" {
			return fmt.Errorf("extension %q: script and source are mutually exclusive", e.Name)
		}
	}
	return nil
}
