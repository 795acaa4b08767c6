package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/loomworks/loom/errors"
)

// IngestCmd builds a lattice from a sequence of items
var IngestCmd = &cobra.Command{
	Use:   "ingest <item>...",
	Short: "Ingest a sequence and build its lattice",
	Long: `Decompose an ordered sequence into its full sub-sequence lattice.

Items containing "://" or starting with "did:" are treated as references
and pass through untouched; everything else becomes a canonical atom.

Examples:
  loom ingest the quick fox             # Three-item sequence
  cat words.txt | loom ingest --stdin   # One item per line`,
	RunE: runIngest,
}

var ingestStdin bool

func init() {
	IngestCmd.Flags().BoolVar(&ingestStdin, "stdin", false, "Read newline-separated items from stdin")
}

func runIngest(cmd *cobra.Command, args []string) error {
	var items []any
	if ingestStdin {
		var err error
		items, err = readItemLines(os.Stdin)
		if err != nil {
			return err
		}
	} else {
		for _, arg := range args {
			items = append(items, arg)
		}
	}

	if len(items) == 0 {
		return errors.New("no items to ingest (pass items as arguments or use --stdin)")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	topID, err := engine.IngestSequence(items)
	if err != nil {
		return errors.Wrap(err, "ingest failed")
	}

	atoms, fragments := engine.Stats()

	pterm.Success.Printf("Ingested %d items\n", len(items))
	fmt.Printf("Top fragment: %s\n", topID)
	fmt.Printf("Resolved:     %s\n", engine.ResolveContentString(topID))
	fmt.Printf("Repository:   %d atoms, %d fragments\n", atoms, fragments)

	return nil
}
