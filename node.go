package vtempl

// TextNodeType is the Type of a virtual node carrying raw text content.
const TextNodeType = "#text"

// NodeID identifies a node within the tree it was parsed into. IDs are
// assigned sequentially by the Tag Tree Builder and key the static
// classification map produced by DetectStaticNodes. They carry no meaning
// across separately parsed trees.
type NodeID int

// VNode is a lightweight description of a UI element or text run.
//
// Nodes built at compile time exist only between parsing and code
// generation; the compiled Template keeps the generated code and the static
// map, not the nodes. Render-time node trees are a distinct set of objects
// produced by whatever construction function the caller hands to Render.
type VNode struct {
	ID       NodeID
	Type     string         // TextNodeType for text runs, otherwise the tag name
	Props    map[string]any // attribute values; literal true marks a presence-only attribute
	Children []*VNode       // document order
	// NodeValue holds the raw trimmed text of a TextNodeType node, prior to
	// interpolation substitution.
	NodeValue string
}

// HFunc constructs a virtual node. The Tag Tree Builder calls it for every
// non-text node it encounters (with nil children: containment is managed by
// the Builder), and generated code calls the render-time equivalent with the
// finished children list. props is nil or a map[string]any; children is
// nil, a string (text content), or a []any of previously constructed nodes.
type HFunc func(typ string, props any, children any) *VNode

// NewNode is the default HFunc. It is usable both at compile time and as the
// render-time construction function passed to Template.Render.
func NewNode(typ string, props any, children any) *VNode {
	n := &VNode{Type: typ}
	if m, ok := props.(map[string]any); ok {
		n.Props = m
	}
	switch c := children.(type) {
	case nil:
	case string:
		n.NodeValue = c
	case []*VNode:
		n.Children = c
	case []any:
		for _, child := range c {
			// Directive handlers may compile a child away entirely (for
			// example a false conditional evaluates to nil).
			if vn, ok := child.(*VNode); ok && vn != nil {
				n.Children = append(n.Children, vn)
			}
		}
	}
	return n
}
