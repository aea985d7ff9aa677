package transport

import (
	"encoding/json"
	"fmt"

	"github.com/fastygo/tasklist/domain"
)

// MessageResponse is the body of every error response.
type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessage(message string) MessageResponse {
	return MessageResponse{Message: message}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    domain.UserInfo `json:"user"`
}

func NewAuthResponse(message string, session *domain.Session) AuthResponse {
	return AuthResponse{
		Message: message,
		Token:   session.Token,
		User:    session.User,
	}
}

// ClearCompletedResponse reports how many completed tasks were removed.
type ClearCompletedResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

func NewClearCompletedResponse(count int) ClearCompletedResponse {
	return ClearCompletedResponse{
		Message:      fmt.Sprintf("Deleted %d completed todos.", count),
		DeletedCount: count,
	}
}

// Marshal returns the JSON representation, falling back to a generic message
// body when payload cannot be encoded.
func Marshal(payload interface{}) []byte {
	out, err := json.Marshal(payload)
	if err != nil {
		out, _ = json.Marshal(NewMessage("Internal server error"))
	}
	return out
}
