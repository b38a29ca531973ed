package tylerr

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables read on first settings access.
const (
	// EnvBacktrace enables backtrace capture when set to "true".
	EnvBacktrace = "TYL_ERROR_BACKTRACE"
	// EnvMaxRetries overrides the maximum retry attempts.
	EnvMaxRetries = "TYL_ERROR_MAX_RETRIES"
	// EnvLogErrors disables diagnostic logging when set to "false".
	EnvLogErrors = "TYL_ERROR_LOG_ERRORS"
	// EnvLogLevel sets the minimum diagnostic level.
	EnvLogLevel = "TYL_ERROR_LOG_LEVEL"

	// envTraceback is the runtime's own traceback variable. Its presence
	// enables backtraces when EnvBacktrace is absent.
	envTraceback = "GOTRACEBACK"
)

// Settings is the process wide error handling configuration.
type Settings struct {
	// BacktraceEnabled makes constructors capture a stack trace.
	BacktraceEnabled bool
	// MaxRetries bounds Error.ShouldRetry.
	MaxRetries int
	// LogErrors gates LogIfEnabled output entirely.
	LogErrors bool
	// LogLevel is the minimum level LogIfEnabled writes.
	LogLevel logrus.Level
}

// NewSettings returns settings with explicit values, primarily for tests.
func NewSettings(backtraceEnabled bool, maxRetries int, logErrors bool, logLevel logrus.Level) Settings {
	return Settings{
		BacktraceEnabled: backtraceEnabled,
		MaxRetries:       maxRetries,
		LogErrors:        logErrors,
		LogLevel:         logLevel,
	}
}

// DefaultSettings returns the built-in defaults: no backtraces, 3 retries,
// logging enabled at Info.
func DefaultSettings() Settings {
	return Settings{
		MaxRetries: 3,
		LogErrors:  true,
		LogLevel:   logrus.InfoLevel,
	}
}

var (
	settingsOnce   sync.Once
	globalSettings Settings
)

// GlobalSettings returns the process wide settings. They are read from the
// environment on first call and cached for the lifetime of the process:
//
//	TYL_ERROR_BACKTRACE    capture stack traces, "true"/"false" (default false;
//	                       falls back to GOTRACEBACK being set when absent)
//	TYL_ERROR_MAX_RETRIES  maximum retry attempts (default 3)
//	TYL_ERROR_LOG_ERRORS   write diagnostics to stderr, "true"/"false" (default true)
//	TYL_ERROR_LOG_LEVEL    ERROR, WARN, WARNING, INFO or DEBUG (default INFO)
//
// Safe for concurrent first access.
func GlobalSettings() Settings {
	settingsOnce.Do(func() {
		globalSettings = settingsFromEnv()
	})
	return globalSettings
}

func settingsFromEnv() Settings {
	s := DefaultSettings()

	if v, ok := os.LookupEnv(EnvBacktrace); ok {
		s.BacktraceEnabled = strings.EqualFold(v, "true")
	} else {
		_, s.BacktraceEnabled = os.LookupEnv(envTraceback)
	}

	if v, ok := os.LookupEnv(EnvMaxRetries); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.MaxRetries = n
		}
	}

	if v, ok := os.LookupEnv(EnvLogErrors); ok {
		s.LogErrors = !strings.EqualFold(v, "false")
	}

	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		s.LogLevel = lvl
	}
	return s
}

// parseLevel recognizes the four supported level names, case-insensitively.
// Unrecognized input reports ok=false so the caller keeps its default.
func parseLevel(v string) (logrus.Level, bool) {
	switch strings.ToUpper(v) {
	case "ERROR":
		return logrus.ErrorLevel, true
	case "WARN", "WARNING":
		return logrus.WarnLevel, true
	case "INFO":
		return logrus.InfoLevel, true
	case "DEBUG":
		return logrus.DebugLevel, true
	}
	return logrus.InfoLevel, false
}

// BacktraceEnabled reports whether constructors capture stack traces.
func BacktraceEnabled() bool {
	return GlobalSettings().BacktraceEnabled
}

// MaxRetries returns the process wide retry limit.
func MaxRetries() int {
	return GlobalSettings().MaxRetries
}

// LogErrorsEnabled reports whether diagnostic logging is enabled.
func LogErrorsEnabled() bool {
	return GlobalSettings().LogErrors
}

// LogLevel returns the minimum diagnostic level.
func LogLevel() logrus.Level {
	return GlobalSettings().LogLevel
}

// LoadEnvFile loads environment variables from the given dotenv files, or
// from ".env" when none are named, without overriding variables that are
// already set. Call it before the first settings access; settings already
// cached by GlobalSettings are not re-read. A missing or malformed file is
// reported as a Configuration error.
func LoadEnvFile(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return Configuration(fmt.Sprintf("env file: %v", err))
	}
	return nil
}
