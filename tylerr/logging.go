package tylerr

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// logger writes LogIfEnabled output to stderr. Filtering happens in
// LogIfEnabled against the cached settings, so the logger itself passes
// every level through.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(bracketFormatter{})
	return l
}

// Logger returns the diagnostic logger so callers can redirect or silence
// it, for example in tests.
func Logger() *logrus.Logger {
	return logger
}

// bracketFormatter renders entries as "[LEVEL] message".
type bracketFormatter struct{}

func (bracketFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	b.WriteString("[")
	b.WriteString(levelName(entry.Level))
	b.WriteString("] ")
	b.WriteString(entry.Message)
	b.WriteString("\n")
	return b.Bytes(), nil
}

func levelName(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel:
		return "ERROR"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.DebugLevel:
		return "DEBUG"
	}
	return strings.ToUpper(level.String())
}

// LogIfEnabled writes the error's display string to the diagnostic stream
// when logging is enabled and level is at or below the configured minimum.
// logrus level values grow as severity drops, so an Error message passes an
// Info minimum but a Debug message does not.
func (e *Error) LogIfEnabled(level logrus.Level) {
	s := GlobalSettings()
	if !s.LogErrors || level > s.LogLevel {
		return
	}
	// logrus panics when told to log at PanicLevel, so anything more severe
	// than Error degrades to Error.
	if level < logrus.ErrorLevel {
		level = logrus.ErrorLevel
	}
	logger.Log(level, e.Error())
}

// ToLogrus returns err's classification as logrus.Fields for use with
// logrus.WithFields. Classification fields are present only when err is or
// wraps an *Error, and construction site fields only when a backtrace was
// captured.
func ToLogrus(err error) logrus.Fields {
	fields := logrus.Fields{
		"error": err.Error(),
	}

	var e *Error
	if !errors.As(err, &e) {
		return fields
	}
	cat := e.Category()
	fields["kind"] = string(e.kind)
	fields["category"] = cat.CategoryName()
	fields["retriable"] = cat.IsRetriable()

	if e.stack != nil {
		f := e.stack.firstFrame()
		fields["errorFunc"] = f.Func
		fields["errorFile"] = f.File
		fields["errorLine"] = f.Line
	}
	return fields
}

// Fields returns the context as logrus.Fields. Metadata entries are appended
// after the fixed fields and win on key collision.
func (c *ErrorContext) Fields() logrus.Fields {
	fields := logrus.Fields{
		"errorId":      c.ErrorID.String(),
		"operation":    c.Operation,
		"category":     c.Category.CategoryName(),
		"message":      c.Message,
		"occurredAt":   c.OccurredAt,
		"attemptCount": c.AttemptCount,
	}
	for k, v := range c.Metadata {
		fields[k] = v
	}
	return fields
}
