package vtempl

// DetectStaticNodes classifies every node of the forest as static (content
// provably constant across renders) or dynamic. The result maps node IDs to
// their classification; the nodes themselves are not touched.
//
// A text node is static iff its raw value contains no interpolation marker.
// An element node is static iff none of its prop keys is a registered
// directive name, no prop key or value matches the binding marker, no prop
// value contains an interpolation marker, and every child is static. The
// classification is conservative: any dynamic signal anywhere in a subtree
// marks the whole chain of ancestors dynamic, so a downstream caching layer
// may safely skip reconstructing subtrees marked static.
func DetectStaticNodes(roots []*VNode, cfg *Config) map[NodeID]bool {
	static := make(map[NodeID]bool)
	for _, root := range roots {
		detectStatic(root, cfg, static)
	}
	return static
}

func detectStatic(n *VNode, cfg *Config, out map[NodeID]bool) bool {
	if n.Type == TextNodeType {
		isStatic := !cfg.interpolation().MatchString(n.NodeValue)
		out[n.ID] = isStatic
		return isStatic
	}

	isStatic := true
	for key, value := range n.Props {
		if cfg.directive(key) != nil {
			isStatic = false
		}
		if cfg.binding().MatchString(key) {
			isStatic = false
		}
		if s, ok := value.(string); ok {
			if cfg.binding().MatchString(s) || cfg.interpolation().MatchString(s) {
				isStatic = false
			}
		}
	}

	// Every child is visited even once the element is known dynamic, so the
	// map covers all descendants.
	for _, child := range n.Children {
		if !detectStatic(child, cfg, out) {
			isStatic = false
		}
	}

	out[n.ID] = isStatic
	return isStatic
}
