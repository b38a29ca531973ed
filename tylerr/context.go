package tylerr

import (
	"time"

	"github.com/google/uuid"
)

// ErrorContext tracks a single error occurrence across retries of an
// operation. It carries a process unique id, the classification, and free
// form metadata for debugging and monitoring.
//
// The Category field does not survive serialization. A decoded context
// carries the zero ErrorCategory, which behaves as Unknown.
type ErrorContext struct {
	ErrorID      uuid.UUID      `json:"error_id"`
	Operation    string         `json:"operation"`
	Category     ErrorCategory  `json:"-"`
	Message      string         `json:"message"`
	OccurredAt   time.Time      `json:"occurred_at"`
	AttemptCount int            `json:"attempt_count"`
	Metadata     map[string]any `json:"metadata"`
}

// NewErrorContext returns a context for a failed operation, stamped with a
// random id, the current UTC time and an attempt count of 1.
func NewErrorContext(operation string, category ErrorCategory, message string) *ErrorContext {
	return &ErrorContext{
		ErrorID:      uuid.New(),
		Operation:    operation,
		Category:     category,
		Message:      message,
		OccurredAt:   time.Now().UTC(),
		AttemptCount: 1,
		Metadata:     make(map[string]any),
	}
}

// WithMetadata stores a metadata entry and returns the context for chaining.
func (c *ErrorContext) WithMetadata(key string, value any) *ErrorContext {
	c.AddMetadata(key, value)
	return c
}

// AddMetadata stores a metadata entry, replacing any existing value.
func (c *ErrorContext) AddMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// GetMetadata returns the metadata value for key, if present.
func (c *ErrorContext) GetMetadata(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}

// HasMetadata reports whether a metadata entry exists for key.
func (c *ErrorContext) HasMetadata(key string) bool {
	_, ok := c.Metadata[key]
	return ok
}

// ClearMetadata removes all metadata entries.
func (c *ErrorContext) ClearMetadata() {
	for k := range c.Metadata {
		delete(c.Metadata, k)
	}
}

// MetadataCount returns the number of metadata entries.
func (c *ErrorContext) MetadataCount() int {
	return len(c.Metadata)
}

// IncrementAttempt records one more attempt at the operation. Call it each
// time the operation is retried.
func (c *ErrorContext) IncrementAttempt() {
	c.AttemptCount++
}

// Clone returns a copy of the context with its own metadata map.
func (c *ErrorContext) Clone() *ErrorContext {
	n := *c
	n.Metadata = make(map[string]any, len(c.Metadata))
	for k, v := range c.Metadata {
		n.Metadata[k] = v
	}
	return &n
}
