package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loom/lattice"
)

func TestSplitItems(t *testing.T) {
	assert.Equal(t, []any{"a", "b", "c"}, splitItems("a b c"))
	assert.Equal(t, []any{"a"}, splitItems("  a  "))
	assert.Empty(t, splitItems(""))
	assert.Empty(t, splitItems("   "))
}

func TestReadItemLines(t *testing.T) {
	input := "the\n\nquick \n fox\n"
	items, err := readItemLines(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []any{"the", "quick", "fox"}, items)
}

func TestSeedEngine(t *testing.T) {
	engine := lattice.New(
		lattice.WithAuthority("https://test.loom"),
		lattice.WithAgent("did:key:zTestAgent"),
	)

	err := seedEngine(engine, []string{"a b", "", "c"})
	require.NoError(t, err)

	atoms, fragments := engine.Stats()
	assert.Equal(t, 3, atoms)
	assert.Equal(t, 4, fragments)
}

func TestSeedEngineRejectsBadSeed(t *testing.T) {
	engine := lattice.New(
		lattice.WithAuthority("https://test.loom"),
		lattice.WithAgent("did:key:zTestAgent"),
	)

	err := seedEngine(engine, []string{"   "})
	require.NoError(t, err, "blank seeds are skipped, not errors")
}
