// Package lattice implements the content-addressed, deduplicating sequence
// lattice engine.
//
// The engine turns an ordered sequence of symbolic values into the full set
// of fragments covering every contiguous sub-sequence of that sequence. Each
// distinct value maps to exactly one atom, and each distinct ordered content
// list maps to exactly one fragment, so repeated ingestion reuses existing
// nodes instead of duplicating them.
//
// A fragment of level N (content length N) is built from its two maximal
// overlapping sub-fragments of level N-1: the one covering everything but
// the last element, and the one covering everything but the first. These two
// are the fragment's constituents. Level-1 "wrapper" fragments hold a single
// child and have no constituents.
//
// All state lives in a single Engine instance guarded by one lock; there is
// no process-wide registry. Mutating operations (CanonicalAtom,
// IngestSequence, DeleteNode, Reset) fire the engine's change listeners
// after completing. Listeners must not invoke mutating operations.
package lattice
