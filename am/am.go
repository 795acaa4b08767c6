// Package am holds the core Loom configuration ("I am").
//
// Configuration sources, in order of precedence: environment variables
// (LOOM_* prefix), project am.toml, user ~/.loom/am.toml, system
// /etc/loom/config.toml, defaults.
package am

// Config represents the core Loom configuration
type Config struct {
	Federation FederationConfig `mapstructure:"federation"`
	Server     ServerConfig     `mapstructure:"server"`
	Lattice    LatticeConfig    `mapstructure:"lattice"`
}

// FederationConfig configures identifier minting and provenance.
// Authority is the prefix of every minted identifier; a trailing slash is
// trimmed on load. Agent is recorded as attributedTo on new nodes; when
// empty, the node's generated did:key identity is used instead.
type FederationConfig struct {
	Authority string `mapstructure:"authority"`
	Agent     string `mapstructure:"agent"`
}

// ServerConfig configures the Loom inspector server
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = default 879, 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogTheme       string   `mapstructure:"log_theme"` // Color theme: gruvbox, plain
}

// LatticeConfig configures engine limits
type LatticeConfig struct {
	// ResolveDepthLimit bounds the string resolver's structural recursion.
	// Values <= 0 fall back to the default (128).
	ResolveDepthLimit int `mapstructure:"resolve_depth_limit"`
}

// Server port constants
const (
	DefaultServerPort  = 879  // Development port (above privileged range, near the QNTX family)
	FallbackServerPort = 7879 // Production fallback port
)

// DefaultAuthority is the identifier prefix used when none is configured.
const DefaultAuthority = "https://loom.local"

// DefaultResolveDepthLimit bounds structural recursion in the string resolver.
const DefaultResolveDepthLimit = 128

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
	IdentityPermissions    = 0600 // Private key material (rw-------)
)
