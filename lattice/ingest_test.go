package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom/errors"
)

func TestIngestPairBuildsFullLattice(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"a", "b"})
	require.NoError(t, err)

	atoms, fragments := e.Stats()
	assert.Equal(t, 2, atoms)
	assert.Equal(t, 3, fragments, "two wrappers plus the pair")

	topNode, ok := e.GetNode(top)
	require.True(t, ok)
	assert.Equal(t, KindFragment, topNode.Kind)
	assert.Equal(t, 2, topNode.Height)
	require.Len(t, topNode.Content, 2)
	assert.Equal(t, e.CanonicalAtom("a"), topNode.Content[0])
	assert.Equal(t, e.CanonicalAtom("b"), topNode.Content[1])

	require.NotNil(t, topNode.Constituents)
	left, ok := e.GetNode(topNode.Constituents.Left)
	require.True(t, ok)
	assert.True(t, left.IsWrapper())
	assert.Equal(t, 1, left.Height)
	right, ok := e.GetNode(topNode.Constituents.Right)
	require.True(t, ok)
	assert.True(t, right.IsWrapper())
}

func TestIngestFragmentCount(t *testing.T) {
	// A fresh N-item sequence produces N atoms and N(N+1)/2 fragments.
	for _, n := range []int{1, 2, 3, 5, 8} {
		e := newTestEngine(t)

		items := make([]any, n)
		for i := range items {
			items[i] = string(rune('a' + i))
		}

		_, err := e.IngestSequence(items)
		require.NoError(t, err)

		atoms, fragments := e.Stats()
		assert.Equal(t, n, atoms, "n=%d", n)
		assert.Equal(t, n*(n+1)/2, fragments, "n=%d", n)
	}
}

func TestIngestSingleton(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"solo"})
	require.NoError(t, err)

	node, ok := e.GetNode(top)
	require.True(t, ok)
	assert.True(t, node.IsWrapper(), "single-item top is the wrapper itself")
	assert.Nil(t, node.Constituents)
	assert.Equal(t, 1, node.Height)
	assert.Equal(t, e.CanonicalAtom("solo"), node.Content[0])
}

func TestIngestEmptySequence(t *testing.T) {
	e := newTestEngine(t)

	notified := 0
	defer e.Subscribe(func() { notified++ })()

	_, err := e.IngestSequence(nil)
	require.Error(t, err)
	assert.True(t, errors.IsEmptySequenceError(err))

	atoms, fragments := e.Stats()
	assert.Zero(t, atoms)
	assert.Zero(t, fragments)
	assert.Zero(t, notified, "rejected ingest must not notify")
}

func TestIngestIdempotence(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.IngestSequence([]any{"a", "b", "c"})
	require.NoError(t, err)
	atomsBefore, fragmentsBefore := e.Stats()

	second, err := e.IngestSequence([]any{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-ingest returns the same top fragment")

	atomsAfter, fragmentsAfter := e.Stats()
	assert.Equal(t, atomsBefore, atomsAfter)
	assert.Equal(t, fragmentsBefore, fragmentsAfter)
}

func TestIngestOverlapShares(t *testing.T) {
	// Scenario: a,b then a,b,c. The second ingest reuses the shared
	// structure and adds exactly one atom and three fragments.
	e := newTestEngine(t)

	pair, err := e.IngestSequence([]any{"a", "b"})
	require.NoError(t, err)

	top, err := e.IngestSequence([]any{"a", "b", "c"})
	require.NoError(t, err)

	atoms, fragments := e.Stats()
	assert.Equal(t, 3, atoms)
	assert.Equal(t, 6, fragments)

	topNode, ok := e.GetNode(top)
	require.True(t, ok)
	assert.Equal(t, 3, topNode.Height)
	require.NotNil(t, topNode.Constituents)
	assert.Equal(t, pair, topNode.Constituents.Left, "drop-last constituent is the previously ingested pair")

	rightNode, ok := e.GetNode(topNode.Constituents.Right)
	require.True(t, ok)
	require.Len(t, rightNode.Content, 2)
	assert.Equal(t, e.CanonicalAtom("b"), rightNode.Content[0])
	assert.Equal(t, e.CanonicalAtom("c"), rightNode.Content[1])
}

func TestIngestRepeatedValue(t *testing.T) {
	// "a b a" reuses one atom for both occurrences but still builds
	// position-distinct fragments.
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"a", "b", "a"})
	require.NoError(t, err)

	atoms, fragments := e.Stats()
	assert.Equal(t, 2, atoms)
	assert.Equal(t, 5, fragments, "one shared wrapper, ab, ba, aba")

	topNode, _ := e.GetNode(top)
	atomA := e.CanonicalAtom("a")
	assert.Equal(t, atomA, topNode.Content[0])
	assert.Equal(t, atomA, topNode.Content[2])
}

func TestIngestReferencePassthrough(t *testing.T) {
	e := newTestEngine(t)

	ref := "did:key:zForeignThing"
	top, err := e.IngestSequence([]any{ref, "a"})
	require.NoError(t, err)

	atoms, _ := e.Stats()
	assert.Equal(t, 1, atoms, "references are not canonicalized into atoms")

	topNode, ok := e.GetNode(top)
	require.True(t, ok)
	assert.Equal(t, ref, topNode.Content[0], "reference flows through verbatim")

	// The reference still gets a wrapper, so height accounting holds.
	leftWrapper, ok := e.GetNode(topNode.Constituents.Left)
	require.True(t, ok)
	assert.True(t, leftWrapper.IsWrapper())
	assert.Equal(t, ref, leftWrapper.Content[0])
	assert.Equal(t, 1, leftWrapper.Height, "wrapper over an unresolvable reference")
}

func TestIngestHeights(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.IngestSequence([]any{"a", "b", "c", "d"})
	require.NoError(t, err)

	// Height equals fragment length + 1 in a fully local staircase:
	// wrappers at 1, pairs at 2, triples at 3, the full span at 4.
	byHeight := map[int]int{}
	for _, node := range e.AllNodes() {
		if node.Kind == KindFragment {
			byHeight[node.Height]++
		}
	}
	assert.Equal(t, 4, byHeight[1])
	assert.Equal(t, 3, byHeight[2])
	assert.Equal(t, 2, byHeight[3])
	assert.Equal(t, 1, byHeight[4])
}

func TestIngestNotifiesOnce(t *testing.T) {
	e := newTestEngine(t)

	notified := 0
	defer e.Subscribe(func() { notified++ })()

	_, err := e.IngestSequence([]any{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Equal(t, 1, notified, "one notification per ingest, not per node")

	// Idempotent re-ingest still signals the operation.
	_, err = e.IngestSequence([]any{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Equal(t, 2, notified)
}

func TestIngestMixedTypes(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"x", 2, true})
	require.NoError(t, err)

	topNode, ok := e.GetNode(top)
	require.True(t, ok)
	require.Len(t, topNode.Content, 3)

	numeric, ok := e.GetNode(topNode.Content[1])
	require.True(t, ok)
	assert.Equal(t, 2, numeric.Value)
}
