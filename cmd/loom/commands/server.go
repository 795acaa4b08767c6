package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/loomworks/loom/am"
	"github.com/loomworks/loom/errors"
	"github.com/loomworks/loom/fed"
	"github.com/loomworks/loom/lattice"
	"github.com/loomworks/loom/logger"
	"github.com/loomworks/loom/server"
)

// ServerCmd starts the loom server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the loom server for live lattice exploration",
	Long: `Launch the loom server. Clients connect over WebSocket to ingest
sequences and receive live lattice snapshots; a small HTTP API covers
one-shot queries and the node's DID document.`,
	RunE: runServer,
}

var serverIdentityDir string

func init() {
	ServerCmd.Flags().StringVar(&serverIdentityDir, "identity-dir", "", "Directory holding identity.json (defaults to user config dir)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Get verbosity flag - default to 1 (Info) for server
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = 1
		// Re-init the logger to match: lifecycle logs are the point of
		// running the server in the foreground
		if err := logger.InitializeWithLevel(false, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}

	// Server port from the config cascade (env > project > user > system > default)
	serverPort := am.GetServerPort()

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	identity, err := fed.New(serverIdentityDir, logger.Logger.Named("fed"))
	if err != nil {
		return errors.Wrap(err, "failed to load node identity")
	}

	agent := cfg.Federation.Agent
	if agent == "" {
		agent = identity.DID
	}

	opts := []lattice.Option{
		lattice.WithAuthority(cfg.Federation.Authority),
		lattice.WithAgent(agent),
		lattice.WithLogger(logger.Logger.Named("lattice")),
	}
	if cfg.Lattice.ResolveDepthLimit > 0 {
		opts = append(opts, lattice.WithResolveDepthLimit(cfg.Lattice.ResolveDepthLimit))
	}
	engine := lattice.New(opts...)

	printStartupBanner(verbosity, identity.DID)

	srv, err := server.NewServer(engine, identity, verbosity)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(serverPort)
	}()

	// Wait for shutdown signal (Ctrl+C)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		// Server failed to start or stopped unexpectedly
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		// First Ctrl+C - graceful shutdown
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		// Wait for either shutdown completion or second Ctrl+C
		select {
		case err := <-shutdownDone:
			if err != nil {
				return errors.Wrap(err, "shutdown error")
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			// Second Ctrl+C - force immediate exit
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}
