package vtempl

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// The restricted evaluator. Generated code is compiled to an expr program
// and executed by the expr VM, which resolves every free variable against
// the supplied environment map and nothing else: there is no lexical
// environment to leak from, so the sandbox is a property of the VM rather
// than of a runtime interception trick.

// scopeNodeFunc is the reserved environment key under which Render injects
// the node-construction function. A scope data entry of the same name is
// shadowed.
const scopeNodeFunc = "h"

// Scope is the data context a compiled template's expressions resolve
// against. A Scope owns its evaluation state: the merged environment map is
// built on first render and reused on every subsequent render with this
// Scope, and the embedded VM is reused the same way. Both live exactly as
// long as the Scope. A Scope is not safe for concurrent use; distinct
// Scopes share nothing.
type Scope struct {
	data map[string]any
	env  map[string]any
	vm   vm.VM
}

// NewScope creates a scope over the given data. The data map is snapshotted
// into the evaluation environment on first render; later mutations of the
// original map are not observed.
func NewScope(data map[string]any) *Scope {
	return &Scope{data: data}
}

// environment returns the scope's cached environment with the construction
// function bound under the reserved key.
func (s *Scope) environment(h any) map[string]any {
	if s.env == nil {
		s.env = make(map[string]any, len(s.data)+1)
		for k, v := range s.data {
			s.env[k] = v
		}
	}
	s.env[scopeNodeFunc] = h
	return s.env
}

// compileProgram compiles a generated code string. A syntax error in the
// code (for example from a malformed directive handler output) is fatal
// here rather than at render time.
func compileProgram(code string) (*vm.Program, error) {
	program, err := expr.Compile(code, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compiling generated code: %w", err)
	}
	return program, nil
}
