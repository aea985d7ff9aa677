package domain

import "time"

// Session is the result of a successful register or login: a signed bearer
// token plus the identity it was issued for.
type Session struct {
	Token     string    `json:"token"`
	User      UserInfo  `json:"user"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	ID       string
	Username string
}
