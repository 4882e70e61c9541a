//go:build property
// +build property

package vtempl

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func countNodes(roots []*VNode) int {
	count := 0
	var walk func(n *VNode)
	walk = func(n *VNode) {
		count++
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return count
}

// TestParseProperties checks the Tag Tree Builder over generated templates.
func TestParseProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: a well-formed nested template yields one node per tag pair
	// plus one per non-empty text run.
	properties.Property("node count of well-formed templates", prop.ForAll(
		func(names []string, text string) bool {
			var sb strings.Builder
			for _, name := range names {
				sb.WriteString("<" + name + ">")
			}
			sb.WriteString(text)
			for i := len(names) - 1; i >= 0; i-- {
				sb.WriteString("</" + names[i] + ">")
			}

			roots, err := Parse(sb.String(), &Config{})
			if err != nil {
				return false
			}
			return countNodes(roots) == len(names)+1
		},
		gen.SliceOf(gen.RegexMatch(`^[a-z]{1,8}$`)),
		gen.RegexMatch(`^[a-z]{1,10}( [a-z]{1,10})*$`),
	))

	// Property: self-closing tags count like open/close pairs and never
	// receive children.
	properties.Property("self-closing tags stay leaves", prop.ForAll(
		func(names []string) bool {
			var sb strings.Builder
			sb.WriteString("<root>")
			for _, name := range names {
				sb.WriteString("<" + name + "/>")
			}
			sb.WriteString("</root>")

			roots, err := Parse(sb.String(), &Config{})
			if err != nil || len(roots) != 1 {
				return false
			}
			if len(roots[0].Children) != len(names) {
				return false
			}
			for _, c := range roots[0].Children {
				if len(c.Children) != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.RegexMatch(`^[a-z]{1,8}$`)),
	))

	// Property: a closing tag with no opening tag anywhere on the stack
	// always fails with a structural parse error.
	properties.Property("unmatched closer fails", prop.ForAll(
		func(name string) bool {
			_, err := Parse("</"+name+">", &Config{})
			var perr *ParseError
			return errors.As(err, &perr) && perr.Tag == name
		},
		gen.RegexMatch(`^[a-z]{1,8}$`),
	))

	properties.TestingRun(t)
}

// TestStaticClassificationProperties checks the Static Analyzer over
// generated text runs.
func TestStaticClassificationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: text without an interpolation marker is always static.
	properties.Property("marker-free text is static", prop.ForAll(
		func(text string) bool {
			cfg := &Config{}
			roots, err := Parse(text, cfg)
			if err != nil || len(roots) != 1 {
				return false
			}
			return DetectStaticNodes(roots, cfg)[roots[0].ID]
		},
		gen.RegexMatch(`^[a-z]{1,10}( [a-z]{1,10})*$`),
	))

	// Property: text containing a marker is never static.
	properties.Property("text with a marker is dynamic", prop.ForAll(
		func(before, name string) bool {
			cfg := &Config{}
			text := before + " {{" + name + "}}"
			roots, err := Parse(text, cfg)
			if err != nil || len(roots) != 1 {
				return false
			}
			return !DetectStaticNodes(roots, cfg)[roots[0].ID]
		},
		gen.RegexMatch(`^[a-z]{1,10}$`),
		gen.RegexMatch(`^[a-z]{1,8}$`),
	))

	properties.TestingRun(t)
}
