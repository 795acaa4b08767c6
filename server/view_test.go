package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom/lattice"
)

func testEngine(t *testing.T) *lattice.Engine {
	t.Helper()
	return lattice.New(
		lattice.WithAuthority("https://test.loom"),
		lattice.WithAgent("did:key:zTestAgent"),
	)
}

func TestBuildViewEmpty(t *testing.T) {
	view := BuildView(testEngine(t))

	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Links)
	assert.Zero(t, view.Meta.Stats.TotalNodes)
	assert.False(t, view.Meta.GeneratedAt.IsZero())
}

func TestBuildViewPair(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.IngestSequence([]any{"a", "b"})
	require.NoError(t, err)

	view := BuildView(engine)

	// 2 atoms + 2 wrappers + 1 pair
	assert.Len(t, view.Nodes, 5)
	assert.Equal(t, 5, view.Meta.Stats.TotalNodes)

	byType := map[string]int{}
	for _, link := range view.Links {
		byType[link.Type]++
	}
	// Content edges: wrapper->atom x2, pair->atom x2. Constituent edges:
	// pair->wrapper x2.
	assert.Equal(t, 4, byType[linkTypeContent])
	assert.Equal(t, 1, byType[linkTypeConstituentLeft])
	assert.Equal(t, 1, byType[linkTypeConstituentRight])
	assert.Equal(t, len(view.Links), view.Meta.Stats.TotalEdges)
}

func TestBuildViewLabels(t *testing.T) {
	engine := testEngine(t)
	top, err := engine.IngestSequence([]any{"a", "b"})
	require.NoError(t, err)

	view := BuildView(engine)

	labels := map[string]string{}
	for _, n := range view.Nodes {
		labels[n.ID] = n.Label
	}
	assert.Equal(t, "[a b]", labels[top])
	assert.Equal(t, "a", labels[engine.CanonicalAtom("a")])
}

func TestBuildViewDeterministicOrder(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.IngestSequence([]any{"a", "b", "c"})
	require.NoError(t, err)

	first := BuildView(engine)
	second := BuildView(engine)

	require.Equal(t, len(first.Nodes), len(second.Nodes))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].ID, second.Nodes[i].ID)
	}
	require.Equal(t, len(first.Links), len(second.Links))
	for i := range first.Links {
		assert.Equal(t, first.Links[i], second.Links[i])
	}
}

func TestBuildViewDropsDanglingEdges(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.IngestSequence([]any{"a", "b"})
	require.NoError(t, err)

	deleted := engine.CanonicalAtom("b")
	engine.DeleteNode(deleted)

	view := BuildView(engine)
	for _, link := range view.Links {
		assert.NotEqual(t, deleted, link.Target, "edges to deleted nodes are dropped from the snapshot")
	}
}

func TestBuildViewWidth(t *testing.T) {
	engine := testEngine(t)
	top, err := engine.IngestSequence([]any{"a", "b", "c"})
	require.NoError(t, err)

	view := BuildView(engine)
	for _, n := range view.Nodes {
		switch {
		case n.ID == top:
			assert.Equal(t, 3, n.Width)
		case n.Kind == string(lattice.KindAtom):
			assert.Zero(t, n.Width)
		}
	}
}
