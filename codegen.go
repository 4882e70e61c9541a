package vtempl

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// This file walks a parsed tree and emits a single expression in the expr
// language (github.com/expr-lang/expr) that, evaluated in an environment
// providing a node-construction function h and the scope data referenced by
// interpolations, produces the tree's runtime representation.

// generateNode emits the code for a single node and, recursively, its
// subtree.
func generateNode(n *VNode, cfg *Config) (string, error) {
	if n.Type == TextNodeType {
		return generateText(n, cfg), nil
	}

	// Directives replace the element's own code. Matched handlers chain
	// outermost-first by priority; the innermost continuation produces the
	// element as if no directive props were present.
	matched := matchDirectives(n, cfg)
	rest := func() (string, error) { return generateElement(n, cfg) }
	for i := len(matched) - 1; i >= 0; i-- {
		m := matched[i]
		inner := rest
		rest = func() (string, error) { return m.dir.Render(m.value, inner) }
	}
	return rest()
}

// generateText emits h("#text", nil, <value>) with interpolation markers
// substituted by string-concatenation splices.
func generateText(n *VNode, cfg *Config) string {
	return fmt.Sprintf("h(%q, nil, %s)", TextNodeType, interpolate(n.NodeValue, cfg.interpolation()))
}

// generateElement emits h(<type>, <props>, [<children>]) for an element
// node.
func generateElement(n *VNode, cfg *Config) (string, error) {
	props := generateProps(n, cfg)

	children := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		code, err := generateNode(child, cfg)
		if err != nil {
			return "", err
		}
		children = append(children, code)
	}

	return fmt.Sprintf("h(%q, %s, [%s])", n.Type, props, strings.Join(children, ", ")), nil
}

// generateProps emits the props object literal for an element node. Keys
// are emitted in sorted order so generated code is deterministic.
//
// A prop whose key matches the binding marker contributes the captured name
// as key and its value verbatim as a code expression. A prop whose whole
// value is a single binding marker keeps its key and contributes the
// captured expression verbatim. Any other string value is emitted as a
// quoted literal, with embedded interpolation markers spliced the same way
// as in text nodes. If no prop resolves to the literal key "key", a
// synthetic random key is injected so every generated element has an
// identity key for downstream diffing.
func generateProps(n *VNode, cfg *Config) string {
	keys := make([]string, 0, len(n.Props))
	for key := range n.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hasKey := false
	entries := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		outKey := key
		var code string

		value, _ := n.Props[key].(string)
		isFlag := value == "" && n.Props[key] == true

		if name, ok := captureWhole(cfg.binding(), key); ok {
			outKey = name
			if isFlag {
				code = "true"
			} else {
				code = value
			}
		} else if isFlag {
			code = "true"
		} else if expr, ok := captureWhole(cfg.binding(), value); ok {
			code = expr
		} else {
			code = interpolate(value, cfg.interpolation())
		}

		if outKey == "key" {
			hasKey = true
		}
		entries = append(entries, strconv.Quote(outKey)+": "+code)
	}

	if !hasKey {
		entries = append(entries, `"key": `+strconv.Quote(randomKey()))
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// interpolate turns a raw text value into an expr string expression. Runs of
// literal text become quoted literals; each interpolation marker breaks out
// of the literal and splices string(<captured expression>) in between.
func interpolate(text string, re *regexp.Regexp) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return strconv.Quote(text)
	}

	var parts []string
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parts = append(parts, strconv.Quote(text[last:m[0]]))
		}
		expr := strings.TrimSpace(text[m[2]:m[3]])
		parts = append(parts, "string("+expr+")")
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, strconv.Quote(text[last:]))
	}
	return strings.Join(parts, " + ")
}

// captureWhole returns the first capture of re if the pattern matches s in
// its entirety.
func captureWhole(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) || len(m) < 4 || m[2] < 0 {
		return "", false
	}
	return s[m[2]:m[3]], true
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomKey generates the value for a synthetic identity key prop.
func randomKey() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = keyAlphabet[rand.Intn(len(keyAlphabet))]
	}
	return string(b)
}
