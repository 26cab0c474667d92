// Package debug gates verbose diagnostics by subsystem so a noisy
// investigation of one area does not flood the logs of the others.
//
// Categories name WHAT to inspect (provider, rotation, search, rag, cart,
// transport, config, or all) and come from MIMART_DEBUG or the config file.
// The log level names HOW MUCH detail to emit and comes from
// MIMART_LOG_LEVEL or the config file. The environment wins over config in
// both cases.
//
//	debug.Log("rotation", "trying credential", "attempt", i+1)
//	debug.Raw("provider", string(requestBody))
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug. At TRACE, Raw dumps full
// untruncated payloads.
const LevelTrace = slog.LevelDebug - 4

type categorySet map[string]struct{}

func (s categorySet) has(category string) bool {
	if _, all := s["all"]; all {
		return true
	}
	_, ok := s[category]
	return ok
}

// active is replaced wholesale by Init and read-only afterwards.
var active = splitCategories(os.Getenv("MIMART_DEBUG"))

// Init applies the configured categories and log level, letting the
// MIMART_DEBUG and MIMART_LOG_LEVEL environment variables override both.
// It installs the process-wide JSON slog handler.
func Init(configCategories, configLevel string) {
	cats := os.Getenv("MIMART_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	active = splitCategories(cats)

	level := os.Getenv("MIMART_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether diagnostics are active for the category.
func Enabled(category string) bool {
	return active.has(category)
}

// Log emits a debug-level entry when the category is enabled.
func Log(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level entry when the category is enabled. Visible
// only at MIMART_LOG_LEVEL=TRACE.
func Trace(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(nil, LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// Raw writes text to stderr with no slog framing, for copy-paste-ready
// payload dumps. Emitted only when the category is enabled and the level
// is TRACE.
func Raw(category, text string) {
	if !Enabled(category) || !slog.Default().Enabled(nil, LevelTrace) {
		return
	}
	fmt.Fprintln(os.Stderr, text)
}

// ParseLevel converts a level name to a slog.Level. Unknown or empty
// names fall back to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Truncate caps s at maxLen characters, marking the cut with an ellipsis.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func splitCategories(s string) categorySet {
	set := categorySet{}
	for _, cat := range strings.Split(s, ",") {
		if cat = strings.TrimSpace(strings.ToLower(cat)); cat != "" {
			set[cat] = struct{}{}
		}
	}
	return set
}
