package domain

// User represents a registered identity. Records are created on registration
// and never mutated afterwards.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
}

// UserInfo is the public projection of a User returned to API callers.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Info() UserInfo {
	if u == nil {
		return UserInfo{}
	}
	return UserInfo{ID: u.ID, Username: u.Username}
}
