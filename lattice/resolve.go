package lattice

// ResolveContentString renders a node as a human-readable string by
// recursing over fragment content. It never fails: unknown identifiers
// render as a placeholder carrying the id's trailing path segment, and
// recursion past the configured depth limit degrades to an ellipsis
// instead of overflowing.
//
// An atom renders as its value's string form. A singleton wrapper renders
// as its one child with no extra grouping. A fragment with two or more
// content entries joins its children with spaces inside brackets.
func (e *Engine) ResolveContentString(id string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolveLocked(id, 0)
}

func (e *Engine) resolveLocked(id string, depth int) string {
	if depth > e.resolveDepthLimit {
		return "…"
	}

	node, ok := e.nodes[id]
	if !ok {
		return "[missing:" + TailSegment(id) + "]"
	}

	switch node.Kind {
	case KindAtom:
		return serializeValue(node.Value)
	case KindFragment:
		if len(node.Content) == 1 {
			// Wrapper: pass through to the single child without grouping.
			return e.resolveLocked(node.Content[0], depth+1)
		}
		out := "["
		for i, childID := range node.Content {
			if i > 0 {
				out += " "
			}
			out += e.resolveLocked(childID, depth+1)
		}
		return out + "]"
	default:
		return "[missing:" + TailSegment(id) + "]"
	}
}
