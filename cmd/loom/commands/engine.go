package commands

import (
	"bufio"
	"io"
	"strings"

	"github.com/loomworks/loom/am"
	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/fed"
	"github.com/loomworks/loom/lattice"
	"github.com/loomworks/loom/logger"
)

// newEngine builds an engine wired to the configured authority and agent.
// When federation.agent is unset, the node's did:key identity stands in.
func newEngine() (*lattice.Engine, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	agent := cfg.Federation.Agent
	if agent == "" {
		identity, err := fed.New("", logger.Logger.Named("fed"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to load node identity")
		}
		agent = identity.DID
	}

	opts := []lattice.Option{
		lattice.WithAuthority(cfg.Federation.Authority),
		lattice.WithAgent(agent),
	}
	if cfg.Lattice.ResolveDepthLimit > 0 {
		opts = append(opts, lattice.WithResolveDepthLimit(cfg.Lattice.ResolveDepthLimit))
	}

	return lattice.New(opts...), nil
}

// seedEngine ingests each --seed sequence (space-separated items) so one-shot
// query commands have a lattice to work against.
func seedEngine(engine *lattice.Engine, seeds []string) error {
	for _, seed := range seeds {
		items := splitItems(seed)
		if len(items) == 0 {
			continue
		}
		if _, err := engine.IngestSequence(items); err != nil {
			return errors.Wrapf(err, "failed to seed sequence %q", seed)
		}
	}
	return nil
}

func splitItems(s string) []any {
	fields := strings.Fields(s)
	items := make([]any, 0, len(fields))
	for _, f := range fields {
		items = append(items, f)
	}
	return items
}

// readItemLines reads newline-separated items, one per line, skipping blanks.
func readItemLines(r io.Reader) ([]any, error) {
	var items []any
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read items")
	}
	return items, nil
}
