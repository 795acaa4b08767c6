package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Federation defaults
	v.SetDefault("federation.authority", DefaultAuthority)
	v.SetDefault("federation.agent", "") // empty = fall back to the node did:key

	// Server defaults
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8820"})
	v.SetDefault("server.log_theme", "gruvbox")

	// Lattice defaults
	v.SetDefault("lattice.resolve_depth_limit", DefaultResolveDepthLimit)
}
