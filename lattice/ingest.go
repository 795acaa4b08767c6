package lattice

import (
	"time"

	"github.com/loomworks/loom/errors"
)

// IngestSequence materializes the full lattice of contiguous sub-sequences
// over the given items and returns the top-level fragment identifier.
//
// Each item is either a raw value, canonicalized into an atom, or a string
// already shaped like an identifier (see IsReference), passed through
// unchanged without an existence check. For a sequence of N distinct new
// values this creates N atoms, N singleton wrappers, and N(N-1)/2 composite
// fragments; repeating the call creates nothing and returns the same top
// identifier.
//
// An empty item list fails with ErrEmptySequence before any mutation. A
// missing constituent (possible only around unresolved foreign references)
// skips that one fragment and continues; callers receiving a top fragment
// whose content is shorter than the input should treat the lattice as
// partial. One change notification fires at the end.
func (e *Engine) IngestSequence(items []any) (string, error) {
	if len(items) == 0 {
		return "", errors.Wrap(errors.ErrEmptySequence, "ingest requires at least one item")
	}

	e.checkReentry("IngestSequence")
	start := time.Now()

	e.mu.Lock()

	// Normalize every item to an identifier.
	ids := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok && IsReference(s) {
			ids[i] = s
			continue
		}
		ids[i], _ = e.canonicalAtomLocked(item)
	}

	// Level-1 layer: a singleton wrapper per normalized id.
	topID := ""
	for _, id := range ids {
		wrapper := e.canonicalFragmentLocked([]string{id}, nil)
		if len(ids) == 1 {
			topID = wrapper
		}
	}

	// Every contiguous sub-sequence, shortest lengths first, so both
	// (L-1)-length constituents of each slice already exist when it is
	// processed.
	n := len(ids)
	skipped := 0
	for length := 2; length <= n; length++ {
		for offset := 0; offset+length <= n; offset++ {
			slice := ids[offset : offset+length]

			left, leftOK := e.fragmentRegistry[serializeContent(slice[:length-1])]
			right, rightOK := e.fragmentRegistry[serializeContent(slice[1:])]
			if !leftOK || !rightOK {
				// Unresolved foreign reference: skip this one fragment and
				// keep building the rest of the lattice.
				skipped++
				continue
			}

			id := e.canonicalFragmentLocked(slice, &Pair{Left: left, Right: right})
			topID = id
		}
	}

	atoms, fragments := len(e.atomRegistry), len(e.fragmentRegistry)
	e.mu.Unlock()

	if skipped > 0 {
		e.log.Warnw("Partial lattice built",
			"items", n,
			"skipped", skipped,
			"top", topID,
			"cause", errors.ErrMissingConstituent,
		)
	} else {
		e.log.Infow("Sequence ingested",
			"items", n,
			"top", topID,
			"atoms", atoms,
			"fragments", fragments,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	e.notify()
	return topID, nil
}
