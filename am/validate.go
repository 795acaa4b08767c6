package am

import "github.com/loomworks/loom/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Authority is optional - empty falls back to DefaultAuthority at mint
	// time, but a value that is only a separator is a misconfiguration.
	if c.Federation.Authority == "/" {
		return errors.New("federation.authority cannot be a bare separator")
	}

	// Server port: 0 is invalid (omit for default), negative is invalid
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && *c.Server.Port < 0 {
		return errors.Newf("server.port must be positive, got %d", *c.Server.Port)
	}

	// Resolve depth limit: 0 = use default (per struct docs), negative = invalid
	if c.Lattice.ResolveDepthLimit < 0 {
		return errors.Newf("lattice.resolve_depth_limit must be >= 0, got %d", c.Lattice.ResolveDepthLimit)
	}

	switch c.Server.LogTheme {
	case "", "gruvbox", "plain":
	default:
		return errors.Newf("server.log_theme must be gruvbox or plain, got %q", c.Server.LogTheme)
	}

	return nil
}
