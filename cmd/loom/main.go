package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomworks/loom/cmd/loom/commands"
	"github.com/loomworks/loom/logger"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom - content-addressed sequence lattice engine",
	Long: `Loom - deduplicating lattice engine for ordered symbolic sequences.

Every ingested sequence is decomposed into the full set of its contiguous
sub-sequences, each materialized exactly once and addressed by a stable URI.
Shared structure between sequences is shared storage.

Available commands:
  ingest  - Ingest a sequence and build its lattice
  nodes   - Inspect and manage the node repository
  resolve - Render a node back to a human-readable string
  seek    - Topology queries (neighbors, parent, match)
  am      - Manage Loom configuration ("I am")
  server  - Start the WebSocket/HTTP lattice server
  version - Show version information

Examples:
  loom ingest the quick fox        # Build the lattice for a 3-item sequence
  loom seek match '[?, b]'         # Find left neighbors of b
  loom am show                     # Show current configuration
  loom server                      # Start the lattice server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs
		// Skip for commands with machine-readable output (like 'am show')
		if cmd.Name() != "show" {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			if err := logger.InitializeWithLevel(false, logger.VerbosityToLevel(verbosity)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.IngestCmd)
	rootCmd.AddCommand(commands.NodesCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.SeekCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
