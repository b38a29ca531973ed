package tylerr_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyl-framework/tyl-go/tylerr"
)

func TestMarshalTaggedObjects(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  *tylerr.Error
		want string
	}{
		{"database", tylerr.Database("conn lost"), `{"kind":"Database","message":"conn lost"}`},
		{"validation", tylerr.Validation("email", "invalid"), `{"kind":"Validation","message":"invalid","field":"email"}`},
		{"not found", tylerr.NotFound("memory", "abc-123"), `{"kind":"NotFound","resource":"memory","id":"abc-123"}`},
		{"not implemented", tylerr.NotImplemented("export"), `{"kind":"NotImplemented","feature":"export"}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestNotFoundRoundTrip(t *testing.T) {
	data, err := json.Marshal(tylerr.NotFound("memory", "abc-123"))
	require.NoError(t, err)

	var decoded tylerr.Error
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, tylerr.KindNotFound, decoded.Kind())
	assert.Equal(t, "memory", decoded.Resource())
	assert.Equal(t, "abc-123", decoded.ID())
	assert.Equal(t, "Not found: memory with id abc-123", decoded.Error())
}

func TestValidationRoundTrip(t *testing.T) {
	data, err := json.Marshal(tylerr.Validation("email", "missing @"))
	require.NoError(t, err)

	var decoded tylerr.Error
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "email", decoded.Field())
	assert.Equal(t, "missing @", decoded.Message())
	assert.Equal(t, "Validation", decoded.Category().CategoryName())
}

func TestCustomRoundTripDowngradesToUnknown(t *testing.T) {
	orig := tylerr.BusinessLogic("quota exceeded", rateLimitClassifier{window: time.Second})
	require.True(t, orig.Category().IsRetriable())

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	// The classifier never reaches the wire.
	assert.JSONEq(t, `{"kind":"Custom","message":"quota exceeded"}`, string(data))

	var decoded tylerr.Error
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, tylerr.KindCustom, decoded.Kind())
	assert.Equal(t, "Custom error: quota exceeded", decoded.Error())
	assert.Equal(t, "Unknown", decoded.Category().CategoryName())
	assert.False(t, decoded.Category().IsRetriable())
}

func TestUnmarshalUnknownKind(t *testing.T) {
	var decoded tylerr.Error
	err := json.Unmarshal([]byte(`{"kind":"Bogus","message":"?"}`), &decoded)

	require.Error(t, err)
	assert.True(t, tylerr.IsKind(err, tylerr.KindInternal))
	assert.Contains(t, err.Error(), `Serialization error: unknown error kind "Bogus"`)
}

func TestUnmarshalMalformedPayload(t *testing.T) {
	var decoded tylerr.Error
	err := json.Unmarshal([]byte(`{"kind":`), &decoded)

	require.Error(t, err)
}

func TestUnmarshalMistypedField(t *testing.T) {
	var decoded tylerr.Error
	err := decoded.UnmarshalJSON([]byte(`{"kind":"Database","message":7}`))

	require.Error(t, err)
	assert.True(t, tylerr.IsKind(err, tylerr.KindInternal))
	assert.Contains(t, err.Error(), "JSON serialization error: ")
}
