package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agentx-labs/typelocator/internal/branding"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// LevelSuffix is appended to the upper-cased component name to form the
// per-component override variable, e.g. TYPELOCATOR_TRAVERSAL_LOGLEVEL.
const LevelSuffix = "_LOGLEVEL"

// DefaultLevel is used when neither the process default nor a component
// override is set.
const DefaultLevel = zerolog.WarnLevel

var (
	mu           sync.RWMutex
	configured   bool
	out          io.Writer = os.Stderr
	defaultLevel           = DefaultLevel
)

// Component levels go down to trace; zerolog's global floor would otherwise
// drop finer/finest output.
func init() {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// Configure sets the process-wide writer and default level. Only the first
// call has any effect; later calls are ignored so tests and the CLI can both
// call it safely.
func Configure(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	if configured {
		return
	}
	configured = true
	if w != nil {
		out = w
	}
	defaultLevel = level
}

// ConfigureFromEnv configures console output on stderr using the global
// TYPELOCATOR_LOG_LEVEL override, falling back to fallback.
func ConfigureFromEnv(fallback string) {
	level := DefaultLevel
	if lvl, ok := ParseLevel(fallback); ok {
		level = lvl
	}
	if lvl, ok := ParseLevel(os.Getenv(branding.EnvVar("log_level"))); ok {
		level = lvl
	}
	Configure(consoleWriter(os.Stderr), level)
}

// For returns a logger for the named component. The level is resolved on
// every call, so an override exported after start-up is still honoured by
// components constructed later.
func For(component string) zerolog.Logger {
	mu.RLock()
	w, level := out, defaultLevel
	mu.RUnlock()

	if lvl, ok := ParseLevel(os.Getenv(EnvKey(component))); ok {
		level = lvl
	}
	return New(w, level).With().Str("component", component).Logger()
}

// New returns a bare logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// EnvKey returns the override variable for a component.
func EnvKey(component string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(component))
	return branding.EnvVar(name) + LevelSuffix
}

func consoleWriter(f *os.File) io.Writer {
	noColor := !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	if v, ok := parseBool(os.Getenv(branding.EnvVar("log_nocolor"))); ok {
		noColor = v
	}
	return zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}
}
