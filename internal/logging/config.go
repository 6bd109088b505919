package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/rowcodec/internal/observability"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "ROWCODEC_LOG_LEVEL"
	EnvLogTimestamp = "ROWCODEC_LOG_TIMESTAMP"
	EnvLogNoColor   = "ROWCODEC_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

func ConfigureRuntime(app string) {
	Configure(app, ProfileRuntime)
}

func ConfigureTests() {
	Configure("test", ProfileTest)
}

// Configure installs the global logger once per process. Later calls are no-ops.
func Configure(app string, profile Profile) {
	configureOnce.Do(func() {
		opts := DefaultOptions(profile)
		ApplyEnvOverrides(&opts)
		observability.InitLogger(app, opts)
	})
}

func DefaultOptions(profile Profile) observability.LoggerOptions {
	switch profile {
	case ProfileTest:
		return observability.LoggerOptions{Level: zerolog.DebugLevel, Timestamp: false, NoColor: true}
	default:
		return observability.LoggerOptions{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func ApplyEnvOverrides(opts *observability.LoggerOptions) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. ok is false for empty
// or unrecognized input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
