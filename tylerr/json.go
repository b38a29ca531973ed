package tylerr

import (
	"encoding/json"
	"fmt"
)

// errorJSON is the wire form of Error. The kind field discriminates the
// variant; the remaining fields are populated per kind. The classifier of a
// Custom error is never serialized.
type errorJSON struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message,omitempty"`
	Field    string `json:"field,omitempty"`
	Resource string `json:"resource,omitempty"`
	ID       string `json:"id,omitempty"`
	Feature  string `json:"feature,omitempty"`
}

// MarshalJSON encodes the error as a tagged object, for example:
//
//	{"kind":"NotFound","resource":"user","id":"abc-123"}
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{
		Kind:     e.kind,
		Message:  e.message,
		Field:    e.field,
		Resource: e.resource,
		ID:       e.id,
		Feature:  e.feature,
	})
}

// UnmarshalJSON decodes a tagged object produced by MarshalJSON. A Custom
// error comes back with the Unknown fallback classifier since classifiers do
// not survive serialization. Malformed payloads and unrecognized kinds are
// reported as Internal errors.
func (e *Error) UnmarshalJSON(data []byte) error {
	var raw errorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return FromJSONError(err)
	}
	switch raw.Kind {
	case KindDatabase, KindNetwork, KindConflict, KindInternal, KindConfiguration:
		*e = Error{kind: raw.Kind, message: raw.Message}
	case KindValidation:
		*e = Error{kind: KindValidation, field: raw.Field, message: raw.Message}
	case KindNotFound:
		*e = Error{kind: KindNotFound, resource: raw.Resource, id: raw.ID}
	case KindNotImplemented:
		*e = Error{kind: KindNotImplemented, feature: raw.Feature}
	case KindCustom:
		*e = Error{kind: KindCustom, message: raw.Message, classifier: CategoryUnknown}
	default:
		return Serialization(fmt.Sprintf("unknown error kind %q", string(raw.Kind)))
	}
	return nil
}
