// Package tylerr provides structured error classification for services that
// need to decide, per error, whether an operation should be retried, how long
// to wait before the next attempt, and how to report the failure.
//
// Errors are built through kind specific constructors and carry only the
// fields that kind needs:
//
//	err := tylerr.NotFound("user", "abc-123")
//	err.Category().IsRetriable() // false
//
// Every error maps to exactly one ErrorCategory, which answers the retry
// questions. Custom errors carry a caller supplied Classifier so domain rules
// plug into the same decision points as the built-in categories. Process wide
// behavior such as the retry limit and diagnostic logging is configured once
// from the environment, see Settings.
package tylerr

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Kind discriminates the error variants. It is the value carried in the
// "kind" field of the JSON form.
type Kind string

const (
	KindDatabase       Kind = "Database"
	KindNetwork        Kind = "Network"
	KindValidation     Kind = "Validation"
	KindNotFound       Kind = "NotFound"
	KindConflict       Kind = "Conflict"
	KindInternal       Kind = "Internal"
	KindConfiguration  Kind = "Configuration"
	KindNotImplemented Kind = "NotImplemented"
	KindCustom         Kind = "Custom"
)

// Error is a classified service error. Construct values with the kind
// constructors in this package; the zero value is not meaningful.
//
// An Error is immutable after construction and safe to share across
// goroutines.
type Error struct {
	kind       Kind
	message    string
	field      string
	resource   string
	id         string
	feature    string
	classifier Classifier
	stack      *stack
}

func newError(e *Error) *Error {
	if GlobalSettings().BacktraceEnabled {
		e.stack = callers(2)
	}
	return e
}

// Database returns a Database error for datastore failures.
func Database(message string) *Error {
	return newError(&Error{kind: KindDatabase, message: message})
}

// Network returns a Network error for connectivity failures.
func Network(message string) *Error {
	return newError(&Error{kind: KindNetwork, message: message})
}

// Validation returns a Validation error for the named input field.
func Validation(field, message string) *Error {
	return newError(&Error{kind: KindValidation, field: field, message: message})
}

// NotFound returns a NotFound error for the resource with the given id.
func NotFound(resource, id string) *Error {
	return newError(&Error{kind: KindNotFound, resource: resource, id: id})
}

// Conflict returns a Conflict error for state conflicts such as duplicates.
func Conflict(message string) *Error {
	return newError(&Error{kind: KindConflict, message: message})
}

// Internal returns an Internal error for unexpected system failures.
func Internal(message string) *Error {
	return newError(&Error{kind: KindInternal, message: message})
}

// Configuration returns a Configuration error for bad or missing config.
func Configuration(message string) *Error {
	return newError(&Error{kind: KindConfiguration, message: message})
}

// NotImplemented returns a NotImplemented error for the named feature.
func NotImplemented(feature string) *Error {
	return newError(&Error{kind: KindNotImplemented, feature: feature})
}

// BusinessLogic returns a Custom error whose retry behavior is decided by
// the supplied classifier. A nil classifier behaves as the Unknown category.
func BusinessLogic(message string, classifier Classifier) *Error {
	return newError(&Error{kind: KindCustom, message: message, classifier: classifier})
}

// Parsing returns a Validation error with the field preset to "parsing".
func Parsing(message string) *Error {
	return newError(&Error{kind: KindValidation, field: "parsing", message: message})
}

// Serialization returns an Internal error with a serialization prefix.
func Serialization(message string) *Error {
	return newError(&Error{kind: KindInternal, message: "Serialization error: " + message})
}

// Connection returns a Network error with a connection prefix.
func Connection(message string) *Error {
	return newError(&Error{kind: KindNetwork, message: "Connection error: " + message})
}

// Initialization returns an Internal error with an initialization prefix.
func Initialization(message string) *Error {
	return newError(&Error{kind: KindInternal, message: "Initialization error: " + message})
}

// FromJSONError folds a JSON encode or decode failure into an Internal
// error. Returns nil if err is nil.
func FromJSONError(err error) *Error {
	if err == nil {
		return nil
	}
	return newError(&Error{kind: KindInternal, message: fmt.Sprintf("JSON serialization error: %v", err)})
}

// Error renders the kind specific message.
func (e *Error) Error() string {
	switch e.kind {
	case KindDatabase:
		return "Database error: " + e.message
	case KindNetwork:
		return "Network error: " + e.message
	case KindValidation:
		return "Validation error: " + e.field + ": " + e.message
	case KindNotFound:
		return "Not found: " + e.resource + " with id " + e.id
	case KindConflict:
		return "Conflict: " + e.message
	case KindInternal:
		return "Internal error: " + e.message
	case KindConfiguration:
		return "Configuration error: " + e.message
	case KindNotImplemented:
		return "Feature not implemented: " + e.feature
	case KindCustom:
		return "Custom error: " + e.message
	}
	return e.message
}

// Kind returns the error's variant discriminator.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message field. Empty for NotFound and NotImplemented
// errors, which carry their detail in Resource, ID and Feature.
func (e *Error) Message() string { return e.message }

// Field returns the offending input field of a Validation error.
func (e *Error) Field() string { return e.field }

// Resource returns the resource type of a NotFound error.
func (e *Error) Resource() string { return e.resource }

// ID returns the resource identifier of a NotFound error.
func (e *Error) ID() string { return e.id }

// Feature returns the feature name of a NotImplemented error.
func (e *Error) Feature() string { return e.feature }

// Category returns the error's classification. Each kind maps to exactly one
// category; Custom errors delegate to their classifier.
func (e *Error) Category() ErrorCategory {
	switch e.kind {
	case KindDatabase:
		return Builtin(CategoryTransient)
	case KindNetwork:
		return Builtin(CategoryNetwork)
	case KindValidation:
		return Builtin(CategoryValidation)
	case KindNotFound, KindConflict, KindConfiguration, KindNotImplemented:
		return Builtin(CategoryPermanent)
	case KindInternal:
		return Builtin(CategoryInternal)
	case KindCustom:
		return Custom(e.classifier)
	}
	return Builtin(CategoryUnknown)
}

// ShouldRetry reports whether another attempt is worthwhile after the given
// number of completed attempts. True when the category is retriable and
// attempt is still below the configured MaxRetries.
func (e *Error) ShouldRetry(attempt int) bool {
	return e.Category().IsRetriable() && attempt < MaxRetries()
}

// RetryDelay returns the category's suggested delay before the given 1-based
// attempt.
func (e *Error) RetryDelay(attempt int) time.Duration {
	return e.Category().RetryDelay(attempt)
}

// MaxRetries returns the process wide retry limit, see Settings.
func (e *Error) MaxRetries() int {
	return MaxRetries()
}

// ToContext wraps the error in a new ErrorContext for the named operation,
// stamping a fresh id and timestamp.
func (e *Error) ToContext(operation string) *ErrorContext {
	return NewErrorContext(operation, e.Category(), e.Error())
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, tylerr.Database("")) matches any Database error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && t.kind == e.kind
}

// Clone returns a copy of the error. The classifier and captured stack are
// shared, both are immutable.
func (e *Error) Clone() *Error {
	n := *e
	return &n
}

// Format renders the error for fmt verbs. The %+v form appends the captured
// stack trace when backtraces are enabled.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.Error())
			if e.stack != nil {
				e.stack.Format(s, verb)
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
