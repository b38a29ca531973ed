package tylerr

import "time"

// Classifier is the capability set every error category provides. The built-in
// categories implement it, and callers may provide their own implementations
// to attach domain specific retry behavior to Custom errors.
//
// Implementations must be safe for concurrent use and must not carry mutable
// state. Error values embed categories by value and may cross goroutine
// boundaries, so a copied Classifier interface value must behave identically
// to the original.
type Classifier interface {
	// IsRetriable reports whether errors of this category should be retried.
	IsRetriable() bool

	// RetryDelay returns the suggested delay before the next retry attempt.
	// The attempt number is 1-based.
	RetryDelay(attempt int) time.Duration

	// CategoryName returns a stable human-readable identifier used for
	// logging and telemetry grouping. It must not change between calls.
	CategoryName() string
}

// BuiltinCategory is one of the fixed categories shipped with this package.
// The string value doubles as the category name.
type BuiltinCategory string

const (
	// CategoryTransient covers temporary failures such as database timeouts.
	CategoryTransient BuiltinCategory = "Transient"
	// CategoryPermanent covers failures that will not succeed on retry.
	CategoryPermanent BuiltinCategory = "Permanent"
	// CategoryResourceExhaustion covers exhausted quotas, pools and limits.
	// Retriable, with much longer delays than Transient.
	CategoryResourceExhaustion BuiltinCategory = "ResourceExhaustion"
	// CategoryNetwork covers connectivity failures.
	CategoryNetwork BuiltinCategory = "Network"
	// CategoryAuthentication covers authn and authz failures.
	CategoryAuthentication BuiltinCategory = "Authentication"
	// CategoryValidation covers input validation and parsing failures.
	CategoryValidation BuiltinCategory = "Validation"
	// CategoryInternal covers internal system failures.
	CategoryInternal BuiltinCategory = "Internal"
	// CategoryServiceUnavailable covers 503-style unavailability.
	CategoryServiceUnavailable BuiltinCategory = "ServiceUnavailable"
	// CategoryUnknown is the fallback category.
	CategoryUnknown BuiltinCategory = "Unknown"
)

// builtinCategories is the closed membership set. Order is stable so that
// BuiltinCategories output does not churn between releases.
var builtinCategories = []BuiltinCategory{
	CategoryTransient,
	CategoryPermanent,
	CategoryResourceExhaustion,
	CategoryNetwork,
	CategoryAuthentication,
	CategoryValidation,
	CategoryInternal,
	CategoryServiceUnavailable,
	CategoryUnknown,
}

var builtinCategorySet = map[BuiltinCategory]struct{}{
	CategoryTransient:          {},
	CategoryPermanent:          {},
	CategoryResourceExhaustion: {},
	CategoryNetwork:            {},
	CategoryAuthentication:     {},
	CategoryValidation:         {},
	CategoryInternal:           {},
	CategoryServiceUnavailable: {},
	CategoryUnknown:            {},
}

// BuiltinCategories returns a copy of all built-in categories in a stable order.
func BuiltinCategories() []BuiltinCategory {
	out := make([]BuiltinCategory, len(builtinCategories))
	copy(out, builtinCategories)
	return out
}

func (b BuiltinCategory) valid() bool {
	_, ok := builtinCategorySet[b]
	return ok
}

// IsRetriable reports true for exactly Transient, Network, ServiceUnavailable
// and ResourceExhaustion.
func (b BuiltinCategory) IsRetriable() bool {
	switch b {
	case CategoryTransient, CategoryNetwork, CategoryServiceUnavailable, CategoryResourceExhaustion:
		return true
	}
	return false
}

// RetryDelay computes the built-in capped exponential backoff. The delay is
// the category base delay times 2^min(attempt, 10), with the multiplier
// itself capped at 60. From attempt 6 on the multiplier saturates at 60, so
// delays stop growing.
func (b BuiltinCategory) RetryDelay(attempt int) time.Duration {
	var base time.Duration
	switch b {
	case CategoryTransient:
		base = 100 * time.Millisecond
	case CategoryNetwork:
		base = 500 * time.Millisecond
	case CategoryServiceUnavailable:
		base = time.Second
	case CategoryResourceExhaustion:
		base = 5 * time.Second
	default:
		base = 100 * time.Millisecond
	}

	// Exponent cap keeps the shift well inside int64 range.
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 10 {
		attempt = 10
	}
	mult := int64(1) << uint(attempt)
	if mult > 60 {
		mult = 60
	}
	return base * time.Duration(mult)
}

// CategoryName returns the category identifier, which for built-ins is the
// string value itself.
func (b BuiltinCategory) CategoryName() string {
	return string(b)
}

// ErrorCategory is the classification assigned to an error. It is either one
// of the built-in categories or a caller-supplied Classifier, and both look
// the same through the Classifier methods. The zero value behaves as the
// Unknown built-in, which is also what deserialized values fall back to.
type ErrorCategory struct {
	builtin BuiltinCategory
	custom  Classifier
}

// Builtin wraps a built-in category. Values outside the built-in set are
// normalized to Unknown so every ErrorCategory maps to a known category.
func Builtin(b BuiltinCategory) ErrorCategory {
	if !b.valid() {
		b = CategoryUnknown
	}
	return ErrorCategory{builtin: b}
}

// Custom wraps a caller-supplied classifier. A nil classifier behaves as the
// Unknown built-in.
func Custom(c Classifier) ErrorCategory {
	return ErrorCategory{custom: c}
}

func (c ErrorCategory) classifier() Classifier {
	if c.custom != nil {
		return c.custom
	}
	if c.builtin == "" {
		return CategoryUnknown
	}
	return c.builtin
}

// IsBuiltin reports whether the category is one of the built-in set rather
// than a caller-supplied classifier.
func (c ErrorCategory) IsBuiltin() bool {
	return c.custom == nil
}

// IsRetriable reports whether errors of this category should be retried.
func (c ErrorCategory) IsRetriable() bool {
	return c.classifier().IsRetriable()
}

// RetryDelay returns the suggested delay before the given 1-based attempt.
func (c ErrorCategory) RetryDelay(attempt int) time.Duration {
	return c.classifier().RetryDelay(attempt)
}

// CategoryName returns the human-readable category identifier.
func (c ErrorCategory) CategoryName() string {
	return c.classifier().CategoryName()
}

var (
	_ Classifier = BuiltinCategory("")
	_ Classifier = ErrorCategory{}
)
