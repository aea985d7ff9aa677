package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/testutil"
	"github.com/fastygo/tasklist/repository/collection"
)

func TestGetProfile(t *testing.T) {
	users := collection.NewUserRepository(testutil.NewMemoryStore(), false)
	ctx := context.Background()
	if err := users.Append(ctx, &domain.User{ID: "u1", Username: "dana", PasswordHash: "hash"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	uc := New(users, nil)

	info, err := uc.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if info.ID != "u1" || info.Username != "dana" {
		t.Fatalf("unexpected profile %+v", info)
	}

	if _, err := uc.GetProfile(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
