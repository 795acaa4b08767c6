package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/lattice"
)

// SeekCmd runs topology queries against the lattice
var SeekCmd = &cobra.Command{
	Use:   "seek",
	Short: "Topology queries (neighbors, parent, match)",
	Long: `Query the fragment topology.

Atom arguments are promoted to their singleton wrappers before matching,
and wrapper results are demoted back to atoms, so queries read naturally
at the value level.

Examples:
  loom seek neighbors <id> --dir right --seed "a b c"
  loom seek parent <left-id> <right-id> --seed "a b"
  loom seek match '[?, <id>]' --seed "a b"
  loom seek debug <id> --seed "a b"`,
}

var seekNeighborsCmd = &cobra.Command{
	Use:   "neighbors <id>",
	Short: "Find ordered neighbors of a node",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeekNeighbors,
}

var seekParentCmd = &cobra.Command{
	Use:   "parent <left-id> <right-id>",
	Short: "Find the fragment binding two constituents in order",
	Args:  cobra.ExactArgs(2),
	RunE:  runSeekParent,
}

var seekMatchCmd = &cobra.Command{
	Use:   "match <pattern>",
	Short: "Evaluate a two-term pattern: [a, b], [?, b], or [a, ?]",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeekMatch,
}

var seekDebugCmd = &cobra.Command{
	Use:   "debug <id>",
	Short: "Raw neighbor report without promotion or demotion",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeekDebug,
}

var (
	seekSeed []string
	seekDir  string
)

func init() {
	SeekCmd.PersistentFlags().StringArrayVar(&seekSeed, "seed", nil,
		"Sequence to ingest before querying (space-separated items, repeatable)")
	seekNeighborsCmd.Flags().StringVar(&seekDir, "dir", "right", "Direction: left or right")

	SeekCmd.AddCommand(seekNeighborsCmd)
	SeekCmd.AddCommand(seekParentCmd)
	SeekCmd.AddCommand(seekMatchCmd)
	SeekCmd.AddCommand(seekDebugCmd)
}

func seekEngine() (*lattice.Engine, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	if err := seedEngine(engine, seekSeed); err != nil {
		return nil, err
	}
	return engine, nil
}

func printNeighbors(engine *lattice.Engine, neighbors []lattice.Neighbor) {
	for _, n := range neighbors {
		fmt.Printf("%s  (via %s)\n",
			engine.ResolveContentString(n.NeighborID),
			n.ParentID,
		)
	}
}

func runSeekNeighbors(cmd *cobra.Command, args []string) error {
	engine, err := seekEngine()
	if err != nil {
		return err
	}

	var direction lattice.Direction
	switch seekDir {
	case "left":
		direction = lattice.DirectionLeft
	case "right":
		direction = lattice.DirectionRight
	default:
		return errors.Newf("dir must be left or right, got %q", seekDir)
	}

	neighbors := engine.FindNeighbors(args[0], direction)
	if len(neighbors) == 0 {
		pterm.Info.Printf("No %s neighbors\n", seekDir)
		return nil
	}
	printNeighbors(engine, neighbors)
	return nil
}

func runSeekParent(cmd *cobra.Command, args []string) error {
	engine, err := seekEngine()
	if err != nil {
		return err
	}

	parentID, found := engine.FindParentNode(args[0], args[1])
	if !found {
		pterm.Info.Println("No binding fragment")
		return nil
	}
	fmt.Printf("%s\n", parentID)
	fmt.Printf("Resolved: %s\n", engine.ResolveContentString(parentID))
	return nil
}

func runSeekMatch(cmd *cobra.Command, args []string) error {
	engine, err := seekEngine()
	if err != nil {
		return err
	}

	matches := engine.MatchPattern(args[0])
	if len(matches) == 0 {
		pterm.Info.Println("No matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("[%s, %s]  via %s\n",
			engine.ResolveContentString(m.Left),
			engine.ResolveContentString(m.Right),
			m.ParentID,
		)
	}
	return nil
}

func runSeekDebug(cmd *cobra.Command, args []string) error {
	engine, err := seekEngine()
	if err != nil {
		return err
	}

	report := engine.DebugNeighbors(args[0])
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	fmt.Println(string(data))
	return nil
}
