package transport

import (
	"encoding/json"
	"testing"
)

func TestTaskUpdateRequest_Patch(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantText      *string
		wantCompleted *bool
	}{
		{name: "empty", body: `{}`},
		{name: "text", body: `{"text":"milk"}`, wantText: ptr("milk")},
		{name: "empty text still supplied", body: `{"text":""}`, wantText: ptr("")},
		{name: "completed", body: `{"completed":false}`, wantCompleted: ptr(false)},
		{name: "mistyped fields", body: `{"text":42,"completed":"yes"}`},
		{name: "null fields", body: `{"text":null,"completed":null}`},
		{name: "both", body: `{"text":"x","completed":true}`, wantText: ptr("x"), wantCompleted: ptr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TaskUpdateRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			patch := req.Patch()
			if (patch.Text == nil) != (tt.wantText == nil) || (patch.Text != nil && *patch.Text != *tt.wantText) {
				t.Fatalf("text mismatch: got %v want %v", patch.Text, tt.wantText)
			}
			if (patch.Completed == nil) != (tt.wantCompleted == nil) || (patch.Completed != nil && *patch.Completed != *tt.wantCompleted) {
				t.Fatalf("completed mismatch: got %v want %v", patch.Completed, tt.wantCompleted)
			}
		})
	}
}

func TestTaskCreateRequest_TextValue(t *testing.T) {
	var req TaskCreateRequest
	_ = json.Unmarshal([]byte(`{"text":["a"]}`), &req)
	if _, ok := req.TextValue(); ok {
		t.Fatalf("array text must not count as a string")
	}
	_ = json.Unmarshal([]byte(`{"text":"a\"b"}`), &req)
	if got, ok := req.TextValue(); !ok || got != `a"b` {
		t.Fatalf("unexpected text %q (%v)", got, ok)
	}
}

func ptr[T any](v T) *T { return &v }
