package checker

import "github.com/funvibe/lynx/internal/ast"

// scope is one frame of the lexical scope chain. Lookups walk outward.
type scope struct {
	vars  map[string]*ast.ClassNode
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{vars: make(map[string]*ast.ClassNode), outer: outer}
}

func (s *scope) define(name string, class *ast.ClassNode) {
	s.vars[name] = class
}

func (s *scope) resolve(name string) (*ast.ClassNode, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if c, ok := cur.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}
