package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ResolveCmd renders a node back to a human-readable string
var ResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Render a node back to a human-readable string",
	Long: `Recursively resolve a node's content into a display string.

Atoms render as their value, wrappers pass through to their child, and
larger fragments bracket their space-joined children. Missing identifiers
render as placeholders rather than failing.

Example:
  loom resolve <fragment-id> --seed "the quick fox"`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var resolveSeed []string

func init() {
	ResolveCmd.Flags().StringArrayVar(&resolveSeed, "seed", nil,
		"Sequence to ingest before resolving (space-separated items, repeatable)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if err := seedEngine(engine, resolveSeed); err != nil {
		return err
	}

	fmt.Println(engine.ResolveContentString(args[0]))
	return nil
}
