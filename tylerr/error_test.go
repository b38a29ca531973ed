package tylerr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyl-framework/tyl-go/tylerr"
)

func TestDisplayStrings(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  *tylerr.Error
		want string
	}{
		{"database", tylerr.Database("connection timeout"), "Database error: connection timeout"},
		{"network", tylerr.Network("connection refused"), "Network error: connection refused"},
		{"validation", tylerr.Validation("email", "x"), "Validation error: email: x"},
		{"not found", tylerr.NotFound("memory", "abc-123"), "Not found: memory with id abc-123"},
		{"conflict", tylerr.Conflict("node already exists"), "Conflict: node already exists"},
		{"internal", tylerr.Internal("unexpected state"), "Internal error: unexpected state"},
		{"configuration", tylerr.Configuration("missing url"), "Configuration error: missing url"},
		{"not implemented", tylerr.NotImplemented("bulk export"), "Feature not implemented: bulk export"},
		{"custom", tylerr.BusinessLogic("quota exceeded", rateLimitClassifier{window: time.Second}), "Custom error: quota exceeded"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestCategoryMapping(t *testing.T) {
	for _, tt := range []struct {
		err       *tylerr.Error
		category  string
		retriable bool
	}{
		{tylerr.Database("x"), "Transient", true},
		{tylerr.Network("x"), "Network", true},
		{tylerr.Validation("f", "x"), "Validation", false},
		{tylerr.NotFound("r", "1"), "Permanent", false},
		{tylerr.Conflict("x"), "Permanent", false},
		{tylerr.Internal("x"), "Internal", false},
		{tylerr.Configuration("x"), "Permanent", false},
		{tylerr.NotImplemented("x"), "Permanent", false},
	} {
		cat := tt.err.Category()
		assert.Equal(t, tt.category, cat.CategoryName(), "kind %s", tt.err.Kind())
		assert.Equal(t, tt.retriable, cat.IsRetriable(), "kind %s", tt.err.Kind())
		assert.True(t, cat.IsBuiltin(), "kind %s", tt.err.Kind())
	}
}

func TestCustomErrorCategory(t *testing.T) {
	err := tylerr.BusinessLogic("rate limited", rateLimitClassifier{window: 2 * time.Second})

	cat := err.Category()
	assert.False(t, cat.IsBuiltin())
	assert.Equal(t, "RateLimit", cat.CategoryName())
	assert.True(t, cat.IsRetriable())
	assert.Equal(t, 4*time.Second, err.RetryDelay(2))
}

func TestBusinessLogicNilClassifier(t *testing.T) {
	err := tylerr.BusinessLogic("no rules", nil)
	assert.Equal(t, "Unknown", err.Category().CategoryName())
	assert.False(t, err.ShouldRetry(0))
}

func TestConvenienceConstructors(t *testing.T) {
	parsing := tylerr.Parsing("bad json")
	assert.Equal(t, tylerr.KindValidation, parsing.Kind())
	assert.Equal(t, "parsing", parsing.Field())
	assert.Equal(t, "Validation error: parsing: bad json", parsing.Error())

	serialization := tylerr.Serialization("truncated payload")
	assert.Equal(t, tylerr.KindInternal, serialization.Kind())
	assert.Equal(t, "Internal error: Serialization error: truncated payload", serialization.Error())

	connection := tylerr.Connection("refused")
	assert.Equal(t, tylerr.KindNetwork, connection.Kind())
	assert.Equal(t, "Network error: Connection error: refused", connection.Error())

	initialization := tylerr.Initialization("bad handshake")
	assert.Equal(t, tylerr.KindInternal, initialization.Kind())
	assert.Equal(t, "Internal error: Initialization error: bad handshake", initialization.Error())
}

func TestFieldAccessors(t *testing.T) {
	err := tylerr.NotFound("user", "42")
	assert.Equal(t, "user", err.Resource())
	assert.Equal(t, "42", err.ID())
	assert.Empty(t, err.Message())

	err = tylerr.NotImplemented("export")
	assert.Equal(t, "export", err.Feature())

	err = tylerr.Validation("email", "missing @")
	assert.Equal(t, "email", err.Field())
	assert.Equal(t, "missing @", err.Message())
}

func TestFromJSONError(t *testing.T) {
	var n int
	jsonErr := json.Unmarshal([]byte(`"nope"`), &n)
	require.Error(t, jsonErr)

	err := tylerr.FromJSONError(jsonErr)
	assert.Equal(t, tylerr.KindInternal, err.Kind())
	assert.Contains(t, err.Error(), "Internal error: JSON serialization error: ")

	assert.Nil(t, tylerr.FromJSONError(nil))
}

func TestShouldRetryRespectsMaxRetries(t *testing.T) {
	// Default settings allow 3 attempts.
	err := tylerr.Database("deadlock")
	assert.True(t, err.ShouldRetry(0))
	assert.True(t, err.ShouldRetry(2))
	assert.False(t, err.ShouldRetry(3))
	assert.False(t, err.ShouldRetry(10))
	assert.Equal(t, 3, err.MaxRetries())

	// Never for permanent categories, regardless of attempt.
	assert.False(t, tylerr.Validation("f", "x").ShouldRetry(0))
	assert.False(t, tylerr.NotFound("r", "1").ShouldRetry(0))
}

func TestRetryDelayDelegatesToCategory(t *testing.T) {
	err := tylerr.Network("flaky")
	assert.Equal(t, tylerr.CategoryNetwork.RetryDelay(4), err.RetryDelay(4))
	assert.Equal(t, 30*time.Second, err.RetryDelay(6))
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := tylerr.Database("timeout")
	assert.True(t, errors.Is(err, tylerr.Database("")))
	assert.False(t, errors.Is(err, tylerr.Network("")))

	wrapped := fmt.Errorf("repository: %w", err)
	assert.True(t, errors.Is(wrapped, tylerr.Database("")))
	assert.True(t, tylerr.IsKind(wrapped, tylerr.KindDatabase))
	assert.False(t, tylerr.IsKind(wrapped, tylerr.KindConflict))
	assert.False(t, tylerr.IsKind(errors.New("plain"), tylerr.KindDatabase))
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", tylerr.Conflict("duplicate node"))

	var e *tylerr.Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, tylerr.KindConflict, e.Kind())
	assert.Equal(t, "duplicate node", e.Message())
}

func TestClone(t *testing.T) {
	err := tylerr.Validation("email", "invalid")
	clone := err.Clone()

	require.NotSame(t, err, clone)
	assert.Equal(t, err.Error(), clone.Error())
	assert.Equal(t, err.Kind(), clone.Kind())
	assert.Equal(t, err.Field(), clone.Field())
	assert.True(t, errors.Is(clone, err))
}

func TestToContext(t *testing.T) {
	err := tylerr.Database("connection lost")
	ctx := err.ToContext("save_user")

	assert.NotEqual(t, uuid.Nil, ctx.ErrorID)
	assert.Equal(t, "save_user", ctx.Operation)
	assert.Equal(t, "Database error: connection lost", ctx.Message)
	assert.Equal(t, "Transient", ctx.Category.CategoryName())
	assert.Equal(t, 1, ctx.AttemptCount)
	assert.Zero(t, ctx.MetadataCount())
	assert.False(t, ctx.OccurredAt.IsZero())
}

func TestFormatVerbs(t *testing.T) {
	err := tylerr.NotFound("user", "42")

	assert.Equal(t, "Not found: user with id 42", fmt.Sprintf("%s", err))
	assert.Equal(t, "Not found: user with id 42", fmt.Sprintf("%v", err))
	assert.Equal(t, `"Not found: user with id 42"`, fmt.Sprintf("%q", err))

	// Without a captured backtrace %+v is just the display string.
	assert.Equal(t, "Not found: user with id 42", fmt.Sprintf("%+v", err))
}
