package domain

import "strings"

// Task represents a user-owned todo item.
type Task struct {
	ID        string `json:"id"`
	OwnerID   string `json:"userId"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// OwnedBy reports whether the task belongs to the given user.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.OwnerID == userID
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Text      *string
	Completed *bool
}

// Valid reports whether at least one field was supplied.
func (p TaskPatch) Valid() bool {
	return p.Text != nil || p.Completed != nil
}

// Apply mutates the task in place. Text that is empty after trimming is ignored.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Text != nil {
		if text := strings.TrimSpace(*p.Text); text != "" {
			t.Text = text
		}
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// NormalizeText trims the text and reports whether anything remains.
func NormalizeText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
