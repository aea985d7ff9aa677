// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/tasklist/internal/auth"
	"github.com/fastygo/tasklist/repository"
)

// Secret signs tokens in tests.
const Secret = "test-secret"

// ErrStorage is returned by FailingStore.
var ErrStorage = errors.New("storage unavailable")

// MemoryStore is an in-process DocumentStore.
type MemoryStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]byte{}, saves: map[string]int{}}
}

func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *MemoryStore) Save(_ context.Context, name string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), doc...)
	s.saves[name]++
	return nil
}

// SaveCount returns how many times the named document was written.
func (s *MemoryStore) SaveCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[name]
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error                { return nil }

// FailingStore fails every operation with ErrStorage.
type FailingStore struct{}

func (FailingStore) Load(context.Context, string) ([]byte, error) { return nil, ErrStorage }
func (FailingStore) Save(context.Context, string, []byte) error   { return ErrStorage }
func (FailingStore) Ping(context.Context) error                   { return ErrStorage }
func (FailingStore) Close() error                                 { return nil }

// Hasher returns a bcrypt hasher at the minimum cost to keep tests fast.
func Hasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

// Tokens returns a token manager signing with Secret.
func Tokens() *auth.TokenManager {
	return auth.NewTokenManager(Secret, "tasklist-test", time.Hour)
}

// ExpiredToken returns a correctly signed token whose expiry has passed.
func ExpiredToken(t *testing.T, id, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"iat":      time.Now().Add(-48 * time.Hour).Unix(),
		"exp":      time.Now().Add(-24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
