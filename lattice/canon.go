package lattice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// contentSeparator joins identifiers into a registry key. Identifiers never
// contain control characters, so the unit separator keeps keys unambiguous
// under exact ordered comparison.
const contentSeparator = "\x1f"

// serializeValue produces the atom registry key for a raw value. Numbers
// serialize the way a generic string conversion would, so the numeric 2 and
// the string "2" share one atom deliberately.
func serializeValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// serializeContent produces the fragment registry key for an exact ordered
// identifier list. Order and exact sequence matter: [a b] and [b a] are
// distinct fragments.
func serializeContent(content []string) string {
	return strings.Join(content, contentSeparator)
}

// CanonicalAtom returns the one atom identifier for a value, creating the
// atom on first sight. Reusing an existing atom mutates nothing and fires
// no notification.
func (e *Engine) CanonicalAtom(value any) string {
	e.checkReentry("CanonicalAtom")
	e.mu.Lock()
	id, created := e.canonicalAtomLocked(value)
	e.mu.Unlock()

	if created {
		e.notify()
	}
	return id
}

// canonicalAtomLocked is the registry-or-create core of CanonicalAtom.
// Caller holds the write lock; no notification is fired here so higher
// level operations can batch one notification per call.
func (e *Engine) canonicalAtomLocked(value any) (id string, created bool) {
	key := serializeValue(value)
	if existing, ok := e.atomRegistry[key]; ok {
		return existing, false
	}

	id = e.mintURI(SegmentAtoms)
	e.nodes[id] = &Node{
		URI:          id,
		Kind:         KindAtom,
		Value:        value,
		Level:        0,
		Height:       0,
		AttributedTo: e.agent,
		GeneratedAt:  time.Now(),
	}
	e.order = append(e.order, id)
	e.atomRegistry[key] = id

	e.log.Debugw("Atom created", "id", id)
	return id, true
}

// canonicalFragmentLocked returns the one fragment identifier for an exact
// ordered content list, creating the fragment on first sight. Height
// follows the constituent rule, treating unresolved ids as height 0 so
// fragments over foreign references still materialize. Caller holds the
// write lock; notification is the caller's responsibility.
func (e *Engine) canonicalFragmentLocked(content []string, constituents *Pair) string {
	key := serializeContent(content)
	if existing, ok := e.fragmentRegistry[key]; ok {
		return existing
	}

	var height int
	if constituents != nil {
		height = max(e.heightOfLocked(constituents.Left), e.heightOfLocked(constituents.Right)) + 1
	} else {
		// Level-1 wrapper: one step above its single child.
		height = e.heightOfLocked(content[0]) + 1
	}

	id := e.mintURI(SegmentFragments)
	e.nodes[id] = &Node{
		URI:          id,
		Kind:         KindFragment,
		Level:        len(content),
		Height:       height,
		Content:      append([]string(nil), content...),
		Constituents: constituents,
		AttributedTo: e.agent,
		GeneratedAt:  time.Now(),
	}
	e.order = append(e.order, id)
	e.fragmentRegistry[key] = id

	return id
}

// heightOfLocked reads a node's height, treating missing references as 0.
func (e *Engine) heightOfLocked(id string) int {
	if node, ok := e.nodes[id]; ok {
		return node.Height
	}
	return 0
}
