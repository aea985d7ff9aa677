package transport

import (
	"encoding/json"

	"github.com/fastygo/tasklist/domain"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TaskCreateRequest keeps text raw so a non-string value can be told apart
// from a missing one.
type TaskCreateRequest struct {
	Text json.RawMessage `json:"text"`
}

// TextValue returns the text when it was supplied as a JSON string.
func (r TaskCreateRequest) TextValue() (string, bool) {
	return decodeString(r.Text)
}

// TaskUpdateRequest accepts text and/or completed. A field only counts as
// supplied when it carries the right JSON type.
type TaskUpdateRequest struct {
	Text      json.RawMessage `json:"text"`
	Completed json.RawMessage `json:"completed"`
}

// Patch converts the request into a domain patch, dropping mistyped fields.
func (r TaskUpdateRequest) Patch() domain.TaskPatch {
	var patch domain.TaskPatch
	if text, ok := decodeString(r.Text); ok {
		patch.Text = &text
	}
	if completed, ok := decodeBool(r.Completed); ok {
		patch.Completed = &completed
	}
	return patch
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeBool(raw json.RawMessage) (bool, bool) {
	switch string(raw) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
