package usecase

import (
	"github.com/fastygo/tasklist/domain"
)

// PasswordHasher abstracts the slow salted password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, username string) (*domain.Session, error)
}
