package lattice

// Topology queries over the fragment graph. All queries are linear scans in
// repository insertion order: a correctness-first baseline. A reverse index
// (constituent id -> parent ids) maintained inside the mutation critical
// section would drop these to O(1) lookups; the scan is kept until the
// repository grows past what a scan serves well.

// promoteLocked maps an atom identifier to its singleton wrapper identifier
// when one exists, so constituents-based queries operate on the structural
// (fragment) form. Fragment identifiers pass through unchanged; unknown ids
// are promoted through the wrapper registry too, covering foreign
// references that were wrapped during ingest.
func (e *Engine) promoteLocked(id string) string {
	if node, ok := e.nodes[id]; ok && node.Kind == KindFragment {
		return id
	}
	if wrapper, ok := e.fragmentRegistry[serializeContent([]string{id})]; ok {
		return wrapper
	}
	return id
}

// demoteLocked maps a singleton wrapper identifier back to its wrapped
// child, so query results surface atoms rather than wrapper fragments
// wherever possible.
func (e *Engine) demoteLocked(id string) string {
	if node, ok := e.nodes[id]; ok && node.IsWrapper() {
		return node.Content[0]
	}
	return id
}

// FindParentNode returns the fragment whose constituents are exactly
// (left, right), after promoting both ids to structural form. Absence is a
// missing result, not an error.
func (e *Engine) FindParentNode(leftID, rightID string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	left := e.promoteLocked(leftID)
	right := e.promoteLocked(rightID)

	for _, id := range e.order {
		node := e.nodes[id]
		if node == nil || node.Constituents == nil {
			continue
		}
		if node.Constituents.Left == left && node.Constituents.Right == right {
			return id, true
		}
	}
	return "", false
}

// FindNeighbors returns every (neighbor, parent) pair adjacent to the
// target on the given side. The target is promoted to structural form
// before matching; each neighbor is demoted back to its wrapped atom where
// possible. Results follow repository insertion order, one pair per
// matching fragment.
func (e *Engine) FindNeighbors(targetID string, direction Direction) []Neighbor {
	e.mu.RLock()
	defer e.mu.RUnlock()

	target := e.promoteLocked(targetID)
	results := []Neighbor{}

	for _, id := range e.order {
		node := e.nodes[id]
		if node == nil || node.Constituents == nil {
			continue
		}

		switch direction {
		case DirectionLeft:
			if node.Constituents.Right == target {
				results = append(results, Neighbor{
					NeighborID: e.demoteLocked(node.Constituents.Left),
					ParentID:   id,
				})
			}
		case DirectionRight:
			if node.Constituents.Left == target {
				results = append(results, Neighbor{
					NeighborID: e.demoteLocked(node.Constituents.Right),
					ParentID:   id,
				})
			}
		}
	}
	return results
}

// DebugNeighborReport carries raw constituent matches in both directions,
// without promotion or demotion.
type DebugNeighborReport struct {
	Target string     `json:"target"`
	Left   []Neighbor `json:"left"`
	Right  []Neighbor `json:"right"`
}

// DebugNeighbors runs the neighbor scan without the atom/wrapper
// normalization applied by FindNeighbors, for diagnostic use.
func (e *Engine) DebugNeighbors(targetID string) DebugNeighborReport {
	e.mu.RLock()
	defer e.mu.RUnlock()

	report := DebugNeighborReport{
		Target: targetID,
		Left:   []Neighbor{},
		Right:  []Neighbor{},
	}

	for _, id := range e.order {
		node := e.nodes[id]
		if node == nil || node.Constituents == nil {
			continue
		}
		if node.Constituents.Right == targetID {
			report.Left = append(report.Left, Neighbor{
				NeighborID: node.Constituents.Left,
				ParentID:   id,
			})
		}
		if node.Constituents.Left == targetID {
			report.Right = append(report.Right, Neighbor{
				NeighborID: node.Constituents.Right,
				ParentID:   id,
			})
		}
	}
	return report
}
