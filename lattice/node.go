package lattice

import (
	"strings"
	"time"
)

// NodeKind discriminates the two node record shapes in the repository.
type NodeKind string

const (
	// KindAtom is a level-0 node wrapping a single primitive value.
	KindAtom NodeKind = "atom"
	// KindFragment is a node representing an ordered list of child identifiers.
	KindFragment NodeKind = "fragment"
)

// Identifier path segments for the two node kinds.
const (
	SegmentAtoms     = "atoms"
	SegmentFragments = "fragments"
)

// Pair holds a fragment's two constituent identifiers: the canonical
// sub-fragment covering the content minus its last element, and the one
// covering the content minus its first element.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Node is a repository record: an atom or a fragment. Nodes are immutable
// after creation; deletion removes the record but never rewrites survivors,
// so Content and Constituents entries may dangle after a delete.
type Node struct {
	URI          string    `json:"uri"`
	Kind         NodeKind  `json:"kind"`
	Value        any       `json:"value,omitempty"`        // atoms only
	Level        int       `json:"level"`                  // 0 for atoms, content length for fragments
	Height       int       `json:"height"`                 // 0 for atoms, constituent-derived for fragments
	Content      []string  `json:"content,omitempty"`      // fragments only, length >= 1
	Constituents *Pair     `json:"constituents,omitempty"` // nil for atoms and level-1 wrappers
	AttributedTo string    `json:"attributed_to"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// IsWrapper reports whether the node is a level-1 fragment with a single
// content entry and no constituents.
func (n *Node) IsWrapper() bool {
	return n.Kind == KindFragment && len(n.Content) == 1 && n.Constituents == nil
}

// Direction selects which side of a constituents pair a neighbor query
// looks at.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Neighbor is one result of a neighbor query: the adjacent node and the
// fragment that binds the two together.
type Neighbor struct {
	NeighborID string `json:"neighbor_id"`
	ParentID   string `json:"parent_id"`
}

// IsReference reports whether an ingested item is already shaped like a
// node identifier rather than a raw value. Any string carrying a scheme
// separator or a decentralized-identifier prefix passes; this is a
// syntactic heuristic, not an existence check, so foreign references flow
// through normalization untouched.
func IsReference(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "did:")
}

// TailSegment returns the last path segment of an identifier, used for
// compact display and missing-node placeholders.
func TailSegment(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 && idx+1 < len(id) {
		return id[idx+1:]
	}
	return id
}
