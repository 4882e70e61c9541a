package vtempl

import (
	"fmt"
	"strings"
)

// parser holds the state of a single parse: the remaining input, the stack
// of in-progress nodes, and the set of nodes already known to be closed
// (self-closed tags are closed the moment they are pushed).
type parser struct {
	input  string
	pos    int // current position in input
	cfg    *Config
	stack  []*VNode
	closed map[*VNode]bool
	nextID NodeID
}

// ParseError is the single fatal parse-time failure: a closing tag for which
// no unclosed opening tag of the same name exists anywhere on the stack.
type ParseError struct {
	Tag    string // name of the closing tag
	Offset int    // byte offset of the closing tag in the input
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no matching opening tag for '</%s>' at offset %d", e.Tag, e.Offset)
}

// Parse consumes an HTML-like template string and returns the ordered list
// of top-level virtual nodes. A template may have multiple roots; Parse does
// not enforce single-root shape.
//
// Non-text nodes are constructed through cfg.H; Parse itself only assigns
// identity and manages containment. Malformed attribute syntax degrades to
// boolean-true flags rather than failing; the only fatal condition is a
// closing tag with no matching opening tag, reported as *ParseError with no
// partial tree.
func Parse(input string, cfg *Config) ([]*VNode, error) {
	p := &parser{
		input:  input,
		cfg:    cfg,
		closed: make(map[*VNode]bool),
	}

	for p.pos < len(p.input) {
		loc := tagPattern.FindStringSubmatchIndex(p.input[p.pos:])
		if loc == nil {
			// No more tags: any remaining non-empty text is a trailing
			// text root.
			p.pushText(p.input[p.pos:])
			p.pos = len(p.input)
			break
		}

		// Text preceding the tag token.
		p.pushText(p.input[p.pos : p.pos+loc[0]])

		closing := p.group(loc, 1) == "/"
		name := p.group(loc, 2)
		attrs := p.group(loc, 3)
		selfClosing := p.group(loc, 4) == "/"

		if closing {
			if err := p.closeTag(name, p.pos+loc[0]); err != nil {
				return nil, err
			}
		} else {
			p.openTag(name, attrs, selfClosing)
		}

		p.pos += loc[1]
	}

	return p.stack, nil
}

// group extracts capture group i of a tagPattern match relative to p.pos.
func (p *parser) group(loc []int, i int) string {
	if loc[2*i] < 0 {
		return ""
	}
	return p.input[p.pos+loc[2*i] : p.pos+loc[2*i+1]]
}

// pushText pushes a text node for the given run, unless it trims to nothing.
func (p *parser) pushText(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	n := &VNode{Type: TextNodeType, NodeValue: trimmed}
	n.ID = p.id()
	p.stack = append(p.stack, n)
}

// openTag constructs an element node via the configured construction
// function and pushes it. Self-closing tags are marked closed immediately
// and never receive children.
func (p *parser) openTag(name, attrs string, selfClosing bool) {
	n := p.cfg.h()(name, parseAttrs(attrs), nil)
	n.ID = p.id()
	if selfClosing {
		p.closed[n] = true
	}
	p.stack = append(p.stack, n)
}

// closeTag pops nodes off the stack, accumulating them as content, until the
// top of the stack is an unclosed node whose type matches the closing tag's
// name. The accumulated content is appended to that container in original
// (document) order and the container is marked closed.
func (p *parser) closeTag(name string, offset int) error {
	var content []*VNode
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.Type == name && !p.closed[top] {
			// content was accumulated in pop (reverse) order.
			for i := len(content) - 1; i >= 0; i-- {
				top.Children = append(top.Children, content[i])
			}
			p.closed[top] = true
			return nil
		}
		p.stack = p.stack[:len(p.stack)-1]
		content = append(content, top)
	}
	return &ParseError{Tag: name, Offset: offset}
}

func (p *parser) id() NodeID {
	id := p.nextID
	p.nextID++
	return id
}

// parseAttrs splits a raw attribute blob into a props map. A key without a
// recognizable quoted or bare value becomes the literal boolean true.
func parseAttrs(attrs string) map[string]any {
	props := make(map[string]any)
	for _, m := range attrPattern.FindAllStringSubmatchIndex(attrs, -1) {
		key := attrs[m[2]:m[3]]
		value := any(true)
		// Value groups: double-quoted, single-quoted, bare. A matched but
		// empty quoted value is still a string value.
		for _, g := range []int{2, 3, 4} {
			if m[2*g] >= 0 {
				value = attrs[m[2*g]:m[2*g+1]]
				break
			}
		}
		props[key] = value
	}
	return props
}
