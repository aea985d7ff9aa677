package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "pw1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if !h.Verify("pw1", hash) {
		t.Fatalf("expected password to verify")
	}
	if h.Verify("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
	if h.Verify("pw1", "not-a-hash") {
		t.Fatalf("expected malformed hash to fail")
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct salts")
	}
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	if got := NewPasswordHasher(0).cost; got != DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewPasswordHasher(99).cost; got != DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestPasswordHasher_LongPasswordsTruncate(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash of 80-byte password: %v", err)
	}
	if !h.Verify(long, hash) {
		t.Fatalf("expected long password to verify")
	}
	if !h.Verify(strings.Repeat("p", 72)+"different", hash) {
		t.Fatalf("bytes past 72 must not affect verification")
	}
	if h.Verify(strings.Repeat("p", 71), hash) {
		t.Fatalf("a shorter prefix must not verify")
	}
}
