package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{3, zapcore.DebugLevel},
		{4, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestShouldLogTrace(t *testing.T) {
	if ShouldLogTrace(2) {
		t.Error("verbosity 2 should not enable trace")
	}
	if !ShouldLogTrace(3) {
		t.Error("verbosity 3 should enable trace")
	}
	if !ShouldLogAll(4) {
		t.Error("verbosity 4 should enable full dumps")
	}
	if ShouldLogAll(3) {
		t.Error("verbosity 3 should not enable full dumps")
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"server", "server"},
		{"loom.server", "l.server"},
		{"loom.lattice.builder", "l.lattice.builder"},
	}

	for _, tt := range tests {
		if got := abbreviateName(tt.name); got != tt.want {
			t.Errorf("abbreviateName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitializeDoesNotPanicBeforeUse(t *testing.T) {
	// Logger must be usable before Initialize (no-op at load time)
	Info("pre-initialize message")
	Debugw("pre-initialize structured", "key", "value")

	if err := Initialize(false); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	Infow("post-initialize", "atoms", 3, "fragments", 6)
	Cleanup()
}

func TestInitializeTracksJSONOutput(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{"JSON output mode", true},
		{"Console output mode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			JSONOutput = false

			if err := Initialize(tt.jsonOutput); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Error("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			Cleanup()
		})
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	SetTheme("gruvbox")
	SetTheme("solarized") // unknown, ignored
	if currentTheme != "gruvbox" {
		t.Errorf("unknown theme should be ignored, got %q", currentTheme)
	}
	SetTheme("plain")
	if currentTheme != "plain" {
		t.Errorf("plain theme should be accepted, got %q", currentTheme)
	}
	SetTheme("gruvbox")
}

func TestExtractFieldValuesLatticeStats(t *testing.T) {
	SetTheme("plain")
	defer SetTheme("gruvbox")

	fields := []zapcore.Field{
		{Key: "atoms", Type: zapcore.Int64Type, Integer: 3},
		{Key: "fragments", Type: zapcore.Int64Type, Integer: 6},
	}
	got := extractFieldValues(fields)
	want := "(3 atoms, 6 fragments)"
	if got != want {
		t.Errorf("extractFieldValues = %q, want %q", got, want)
	}
}
