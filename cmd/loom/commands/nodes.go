package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/lattice"
)

// NodesCmd inspects and manages the node repository
var NodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Inspect and manage the node repository",
	Long: `List, show, and delete node records.

The engine is in-memory and per-process: seed it with --seed to have
something to inspect.

Examples:
  loom nodes ls --seed "a b c"       # List the lattice of a 3-item sequence
  loom nodes show <id> --seed "a b"  # Show one record as JSON
  loom nodes rm <id> --seed "a b"    # Delete a node (references stay put)`,
}

var nodesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all node records in insertion order",
	RunE:  runNodesLs,
}

var nodesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single node record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodesShow,
}

var nodesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a node record",
	Long: `Delete a node and its registry entries. Nodes that reference the
deleted id keep their references; the resolver renders them as missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodesRm,
}

var nodesSeed []string

func init() {
	NodesCmd.PersistentFlags().StringArrayVar(&nodesSeed, "seed", nil,
		"Sequence to ingest before running (space-separated items, repeatable)")

	NodesCmd.AddCommand(nodesLsCmd)
	NodesCmd.AddCommand(nodesShowCmd)
	NodesCmd.AddCommand(nodesRmCmd)
}

func seededEngine() (*lattice.Engine, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	if err := seedEngine(engine, nodesSeed); err != nil {
		return nil, err
	}
	return engine, nil
}

func runNodesLs(cmd *cobra.Command, args []string) error {
	engine, err := seededEngine()
	if err != nil {
		return err
	}

	nodes := engine.AllNodes()
	if len(nodes) == 0 {
		pterm.Info.Println("Repository is empty")
		return nil
	}

	tableData := pterm.TableData{{"KIND", "HEIGHT", "RESOLVED", "ID"}}
	for _, node := range nodes {
		tableData = append(tableData, []string{
			string(node.Kind),
			fmt.Sprintf("%d", node.Height),
			engine.ResolveContentString(node.URI),
			node.URI,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	atoms, fragments := engine.Stats()
	fmt.Printf("\n%d atoms, %d fragments\n", atoms, fragments)
	return nil
}

func runNodesShow(cmd *cobra.Command, args []string) error {
	engine, err := seededEngine()
	if err != nil {
		return err
	}

	node, ok := engine.GetNode(args[0])
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "node %s", args[0])
	}

	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal node")
	}
	fmt.Println(string(data))
	return nil
}

func runNodesRm(cmd *cobra.Command, args []string) error {
	engine, err := seededEngine()
	if err != nil {
		return err
	}

	engine.DeleteNode(args[0])
	pterm.Success.Printf("Deleted %s\n", args[0])
	return nil
}
