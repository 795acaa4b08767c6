package commands

import (
	"fmt"

	"github.com/loomworks/loom/internal/version"
	"github.com/loomworks/loom/logger"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, did string) {
	// ANSI escape codes
	cyan := "\033[36m"
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Printf("\n%s%s", cyan, bold)
	fmt.Printf("   ╔═══════════════════════════════════════════╗\n")
	fmt.Printf("   ║                                           ║\n")
	fmt.Printf("   ║   ██       ██████   ██████  ███    ███    ║\n")
	fmt.Printf("   ║   ██      ██    ██ ██    ██ ████  ████    ║\n")
	fmt.Printf("   ║   ██      ██    ██ ██    ██ ██ ████ ██    ║\n")
	fmt.Printf("   ║   ██      ██    ██ ██    ██ ██  ██  ██    ║\n")
	fmt.Printf("   ║   ███████  ██████   ██████  ██      ██    ║\n")
	fmt.Printf("   ║                                           ║\n")
	fmt.Printf("   ║   sequence lattice engine                 ║\n")
	fmt.Printf("   ║                                           ║\n")
	fmt.Printf("   ╚═══════════════════════════════════════════╝%s\n\n", reset)

	fmt.Printf("%s%s┌─ loom Info ─────────────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:   %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Printf("%s│%s Built:     %s\n", green, reset, versionInfo.BuildTime)
	fmt.Printf("%s│%s Verbosity: %s\n", green, reset, logger.LevelName(verbosity))
	if did != "" {
		fmt.Printf("%s│%s Identity:  %s\n", green, reset, did)
	}
	fmt.Printf("%s└─────────────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("\n%s%s✨ Connect a WebSocket client for live lattice updates%s\n", yellow, bold, reset)
	fmt.Printf("%s💡 Press Ctrl+C to stop%s\n\n", blue, reset)
}
