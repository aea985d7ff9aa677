package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/tasklist/domain"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 24 * time.Hour

type claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a TokenManager signing with secret.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID, username string) (*domain.Session, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:       userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		Token:     signed,
		User:      domain.UserInfo{ID: userID, Username: username},
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates the token and returns the caller it was issued for. An
// empty token yields domain.ErrMissingToken; any other failure yields
// domain.ErrInvalidToken wrapping the cause.
func (m *TokenManager) Verify(tokenString string) (*domain.Principal, error) {
	if tokenString == "" {
		return nil, domain.ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, domain.WrapError(domain.ErrCodeForbidden, domain.ErrInvalidToken.Message, err)
	}

	c, _ := parsed.Claims.(*claims)
	if c == nil || c.ID == "" || c.Username == "" {
		return nil, domain.WrapError(domain.ErrCodeForbidden, domain.ErrInvalidToken.Message, errors.New("invalid claims"))
	}
	if c.ExpiresAt == nil {
		return nil, domain.WrapError(domain.ErrCodeForbidden, domain.ErrInvalidToken.Message, errors.New("token has no expiry"))
	}
	return &domain.Principal{ID: c.ID, Username: c.Username}, nil
}
