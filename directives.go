package vtempl

import "sort"

// RestFunc generates the code a directive handler wraps: either the next
// matched directive in priority order, or the plain element itself.
type RestFunc func() (string, error)

// DirectiveFunc turns a directive prop into a code-generation transform. It
// receives the prop's raw value and a continuation producing the code for
// the element without this directive; its returned string replaces the
// element's own code entirely. A conditional, for example:
//
//	func(v string, rest RestFunc) (string, error) {
//		inner, err := rest()
//		if err != nil {
//			return "", err
//		}
//		return "(" + v + ") ? (" + inner + ") : nil", nil
//	}
type DirectiveFunc func(value string, rest RestFunc) (string, error)

// Directive registers a prop name as a structural code-generation transform.
// Higher Priority wraps further out; ties are broken by name so resolution
// is deterministic regardless of prop iteration order.
type Directive struct {
	Name     string
	Priority int
	Render   DirectiveFunc
}

// matchedDirective pairs a registered directive with the raw value of its
// prop on a particular node.
type matchedDirective struct {
	dir   *Directive
	value string
}

// matchDirectives collects the directives present on n's props, removing
// the matched props from the node, and returns them outermost-first. When a
// node carries several directive props they chain: each handler's rest()
// yields the next handler's output, the innermost yielding the plain
// element code.
func matchDirectives(n *VNode, cfg *Config) []matchedDirective {
	var matched []matchedDirective
	for key, value := range n.Props {
		d := cfg.directive(key)
		if d == nil {
			continue
		}
		raw := "true"
		if s, ok := value.(string); ok {
			raw = s
		}
		matched = append(matched, matchedDirective{dir: d, value: raw})
		delete(n.Props, key)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].dir.Priority != matched[j].dir.Priority {
			return matched[i].dir.Priority > matched[j].dir.Priority
		}
		return matched[i].dir.Name < matched[j].dir.Name
	})
	return matched
}
