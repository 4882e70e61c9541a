package vtempl

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// Config describes the host rendering library's contract with the compiler.
// The zero value is usable: nodes are built with NewNode, no directives are
// registered, and {{ ... }} markers drive interpolation and binding.
type Config struct {
	// H constructs nodes during compile-time tree building. It must be
	// idempotent: generated code calls the render-time equivalent again at
	// every render.
	H HFunc
	// Directives maps prop names to structural code-generation transforms,
	// resolved in descending Priority order (ties by name).
	Directives []Directive
	// Interpolation identifies and captures embedded expressions inside
	// text and attribute values. It must have one capture group.
	Interpolation *regexp.Regexp
	// Binding identifies a prop key or whole prop value that denotes a
	// dynamic binding rather than a literal, capturing the inner name or
	// expression.
	Binding *regexp.Regexp
}

func (c *Config) h() HFunc {
	if c.H != nil {
		return c.H
	}
	return NewNode
}

func (c *Config) interpolation() *regexp.Regexp {
	if c.Interpolation != nil {
		return c.Interpolation
	}
	return defaultInterpolation
}

func (c *Config) binding() *regexp.Regexp {
	if c.Binding != nil {
		return c.Binding
	}
	return defaultBinding
}

func (c *Config) directive(name string) *Directive {
	for i := range c.Directives {
		if c.Directives[i].Name == name {
			return &c.Directives[i]
		}
	}
	return nil
}

// Template is a compiled template: the generated code, its compiled
// program, and the static classification of the tree it was generated from.
// The parse-time nodes themselves are discarded.
type Template struct {
	Source string
	Code   string
	// Static maps every parsed node to its static/dynamic classification,
	// for use by a render-time caching layer.
	Static  map[NodeID]bool
	program *vm.Program
}

// Render executes the template's generated code against the scope,
// injecting h as the node-construction function, and returns the root node
// list. h may be any function of the HFunc shape, including one returning a
// host-specific node representation. Evaluation errors propagate
// unrecovered.
func (t *Template) Render(h any, scope *Scope) ([]any, error) {
	if scope == nil {
		scope = NewScope(nil)
	}
	out, err := scope.vm.Run(t.program, scope.environment(h))
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	roots, ok := out.([]any)
	if !ok {
		return nil, fmt.Errorf("rendering template: generated code produced %T, not a node list", out)
	}
	return roots, nil
}

// templateCache is a thread-safe cache of compiled templates keyed by their
// source text.
type templateCache struct {
	mu    sync.RWMutex
	cache map[string]*Template
}

func newTemplateCache() *templateCache {
	return &templateCache{cache: make(map[string]*Template)}
}

func (tc *templateCache) get(source string) (*Template, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	t, ok := tc.cache[source]
	return t, ok
}

func (tc *templateCache) set(source string, t *Template) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cache[source] = t
}

// Compiler compiles templates under a fixed configuration, caching compiled
// templates by source text.
type Compiler struct {
	cfg   Config
	cache *templateCache
}

// NewCompiler creates a Compiler for the given configuration.
func NewCompiler(cfg Config) *Compiler {
	return &Compiler{cfg: cfg, cache: newTemplateCache()}
}

// Compile turns template text into a reusable Template. Steps: strip
// comment regions, build the tag tree, classify static subtrees, generate
// code for every root, and compile the generated code. Multi-root templates
// are supported end-to-end: the generated program is an array over all
// roots and Render returns them all.
func (c *Compiler) Compile(text string) (*Template, error) {
	if t, ok := c.cache.get(text); ok {
		return t, nil
	}

	t, err := compile(text, &c.cfg)
	if err != nil {
		return nil, err
	}
	c.cache.set(text, t)
	return t, nil
}

// Compile is the uncached form of Compiler.Compile, for one-off use.
func Compile(text string, cfg Config) (*Template, error) {
	return compile(text, &cfg)
}

func compile(text string, cfg *Config) (*Template, error) {
	stripped := commentPattern.ReplaceAllString(text, "")

	roots, err := Parse(stripped, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	static := DetectStaticNodes(roots, cfg)

	codes := make([]string, 0, len(roots))
	for _, root := range roots {
		code, err := generateNode(root, cfg)
		if err != nil {
			return nil, fmt.Errorf("generating code: %w", err)
		}
		codes = append(codes, code)
	}
	code := "[" + strings.Join(codes, ", ") + "]"

	program, err := compileProgram(code)
	if err != nil {
		return nil, err
	}

	return &Template{
		Source:  text,
		Code:    code,
		Static:  static,
		program: program,
	}, nil
}
