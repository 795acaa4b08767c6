package am

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "am.toml")

	content := `
[federation]
authority = "https://weave.example/"
agent = "did:key:z6MkTestAgent"

[server]
port = 9100

[lattice]
resolve_depth_limit = 64
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	// Trailing separator is trimmed on load
	if cfg.Federation.Authority != "https://weave.example" {
		t.Errorf("Authority = %q, want trailing slash trimmed", cfg.Federation.Authority)
	}
	if cfg.Federation.Agent != "did:key:z6MkTestAgent" {
		t.Errorf("Agent = %q", cfg.Federation.Agent)
	}
	if cfg.Server.Port == nil || *cfg.Server.Port != 9100 {
		t.Errorf("Port = %v, want 9100", cfg.Server.Port)
	}
	if cfg.Lattice.ResolveDepthLimit != 64 {
		t.Errorf("ResolveDepthLimit = %d, want 64", cfg.Lattice.ResolveDepthLimit)
	}
}

func TestLoadFromFileDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "am.toml")

	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Federation.Authority != DefaultAuthority {
		t.Errorf("Authority = %q, want default %q", cfg.Federation.Authority, DefaultAuthority)
	}
	if cfg.Lattice.ResolveDepthLimit != DefaultResolveDepthLimit {
		t.Errorf("ResolveDepthLimit = %d, want default %d", cfg.Lattice.ResolveDepthLimit, DefaultResolveDepthLimit)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{}
	if err := valid.Validate(); err != nil {
		t.Errorf("empty config should validate, got %v", err)
	}

	zero := 0
	badPort := &Config{Server: ServerConfig{Port: &zero}}
	if err := badPort.Validate(); err == nil {
		t.Error("port 0 should fail validation")
	}

	negative := -1
	negPort := &Config{Server: ServerConfig{Port: &negative}}
	if err := negPort.Validate(); err == nil {
		t.Error("negative port should fail validation")
	}

	badDepth := &Config{Lattice: LatticeConfig{ResolveDepthLimit: -5}}
	if err := badDepth.Validate(); err == nil {
		t.Error("negative resolve depth should fail validation")
	}

	badTheme := &Config{Server: ServerConfig{LogTheme: "solarized"}}
	if err := badTheme.Validate(); err == nil {
		t.Error("unknown log theme should fail validation")
	}
}

func TestIsBackupFile(t *testing.T) {
	if !isBackupFile("/home/user/.loom/am.toml.back1") {
		t.Error("rotation backup should be detected")
	}
	if !isBackupFile("am.toml~") {
		t.Error("editor backup should be detected")
	}
	if isBackupFile("/home/user/.loom/am.toml") {
		t.Error("live config should not be detected as backup")
	}
}
