package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette (warm, muted, easy on eyes)
type gruvboxColors struct {
	fg       string
	aqua     string
	orange   string
	yellow   string
	green    string
	blue     string
	purple   string
	red      string
	redBg    string
	yellowBg string
}

var gruvbox = gruvboxColors{
	fg:       "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	aqua:     "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	orange:   "\x1b[38;5;208m", // Warm orange (#fe8019)
	yellow:   "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	green:    "\x1b[38;5;142m", // Muted green (#b8bb26)
	blue:     "\x1b[38;5;109m", // Soft blue (#83a598)
	purple:   "\x1b[38;5;175m", // Muted purple (#d3869b)
	red:      "\x1b[38;5;167m", // Warm red (#fb4934)
	redBg:    "\x1b[48;5;88m",  // Dark red background
	yellowBg: "\x1b[48;5;58m",  // Dark yellow background
}

// plain disables all color sequences (LOOM_LOG_THEME=plain, or piped output)
var currentTheme = "gruvbox"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "gruvbox" || theme == "plain" {
		currentTheme = theme
	}
}

func paint(color, s string) string {
	if currentTheme == "plain" {
		return s
	}
	return color + s + colorReset
}

func colorMessage(msg string) string {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "client") || strings.Contains(lower, "connected") ||
		strings.Contains(lower, "websocket") {
		return paint(gruvbox.blue, msg)
	}
	if strings.Contains(lower, "ingest") || strings.Contains(lower, "lattice") ||
		strings.Contains(lower, "canonical") || strings.Contains(lower, "resolved") {
		return paint(gruvbox.green, msg)
	}
	if strings.Contains(lower, "starting") || strings.Contains(lower, "started") ||
		strings.Contains(lower, "config") || strings.Contains(lower, "server") {
		return paint(gruvbox.orange, msg)
	}
	return paint(gruvbox.fg, msg)
}

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  l.server  Client connected  127.0.0.1:52289"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	// Base JSON encoder handles field serialization internally
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(paint(gruvbox.aqua, ent.Time.Format("15:04:05")))

	// Level badge only for WARN and above
	if ent.Level != zapcore.InfoLevel && ent.Level != zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(paint(gruvbox.yellow, abbreviateName(ent.LoggerName)))
	}

	final.AppendString("  ")
	final.AppendString(colorMessage(ent.Message))

	if len(fields) > 0 {
		if extracted := extractFieldValues(fields); extracted != "" {
			final.AppendString("  ")
			final.AppendString(extracted)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return paint(colorBold+gruvbox.yellowBg+gruvbox.yellow, "WARN")
	case zapcore.ErrorLevel:
		return paint(colorBold+gruvbox.redBg+gruvbox.red, "ERROR")
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return paint(colorBold+gruvbox.redBg+gruvbox.red, level.CapitalString())
	default:
		return ""
	}
}

// abbreviateName shortens component names: server -> server, loom.server -> l.server
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	if field.Type == zapcore.StringType {
		return field.String
	}

	switch field.Type {
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls just the values from structured fields.
// Input: {"top": "…/fragments/abc", "atoms": 3, "fragments": 6}
// Output: "…/fragments/abc (3 atoms, 6 fragments)" with colored IDs and numbers.
func extractFieldValues(fields []zapcore.Field) string {
	var values []string
	var atomCount, fragmentCount string

	for _, field := range fields {
		switch field.Key {
		case "id", "top", "client_id":
			if val := getFieldValue(field); val != "" {
				values = append(values, paint(gruvbox.blue, val))
			}
		case "atoms":
			atomCount = getFieldValue(field)
		case "fragments":
			fragmentCount = getFieldValue(field)
		case "items", "level", "height":
			if val := getFieldValue(field); val != "" {
				values = append(values, paint(gruvbox.purple, val)+" "+field.Key)
			}
		case "duration_ms":
			if val := getFieldValue(field); val != "" {
				values = append(values, paint(gruvbox.purple, val)+"ms")
			}
		case "error":
			if val := getFieldValue(field); val != "" {
				values = append(values, paint(gruvbox.red, val))
			}
		}
	}

	// Special formatting for lattice stats
	if atomCount != "" && fragmentCount != "" {
		fg := gruvbox.fg
		values = append(values, paint(fg, "(")+paint(gruvbox.purple, atomCount)+
			paint(fg, " atoms, ")+paint(gruvbox.purple, fragmentCount)+paint(fg, " fragments)"))
	}

	if len(values) == 0 {
		return ""
	}

	return strings.Join(values, " ")
}
