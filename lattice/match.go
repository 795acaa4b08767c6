package lattice

import "strings"

// Match is one result of the pattern matcher: a binding fragment and its
// two constituent-side identifiers (demoted to atoms where possible).
type Match struct {
	ParentID string `json:"parent_id"`
	Left     string `json:"left"`
	Right    string `json:"right"`
}

// MatchPattern evaluates a narrow, fixed set of textual pattern shapes over
// the fragment graph:
//
//	[a, b]  fragments whose constituents are exactly (a, b)
//	[?, b]  left neighbors of b
//	[a, ?]  right neighbors of a
//
// Anything else, including [?, ?], yields an empty result. This is not a
// query language; new shapes do not belong here.
func (e *Engine) MatchPattern(pattern string) []Match {
	left, right, ok := parsePattern(pattern)
	if !ok {
		return []Match{}
	}

	switch {
	case left == "?" && right == "?":
		return []Match{}

	case left == "?":
		neighbors := e.FindNeighbors(right, DirectionLeft)
		matches := make([]Match, 0, len(neighbors))
		for _, n := range neighbors {
			matches = append(matches, Match{
				ParentID: n.ParentID,
				Left:     n.NeighborID,
				Right:    right,
			})
		}
		return matches

	case right == "?":
		neighbors := e.FindNeighbors(left, DirectionRight)
		matches := make([]Match, 0, len(neighbors))
		for _, n := range neighbors {
			matches = append(matches, Match{
				ParentID: n.ParentID,
				Left:     left,
				Right:    n.NeighborID,
			})
		}
		return matches

	default:
		if parent, ok := e.FindParentNode(left, right); ok {
			return []Match{{ParentID: parent, Left: left, Right: right}}
		}
		return []Match{}
	}
}

// parsePattern accepts exactly the shape "[x, y]" with two comma-separated
// terms. Terms are trimmed; empty terms reject the pattern.
func parsePattern(pattern string) (left, right string, ok bool) {
	trimmed := strings.TrimSpace(pattern)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return "", "", false
	}

	inner := trimmed[1 : len(trimmed)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return "", "", false
	}

	left = strings.TrimSpace(parts[0])
	right = strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}
