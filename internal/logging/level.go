package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel maps a threshold name to a zerolog level. It accepts the
// eight-step scale off/severe/warning/info/config/fine/finer/finest as well
// as zerolog's own names. Matching is case-insensitive.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultLevel, false
	case "off", "disabled", "none":
		return zerolog.Disabled, true
	case "severe", "error":
		return zerolog.ErrorLevel, true
	case "warning", "warn":
		return zerolog.WarnLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "config", "fine", "debug":
		return zerolog.DebugLevel, true
	case "finer", "finest", "trace", "all":
		return zerolog.TraceLevel, true
	default:
		return DefaultLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
