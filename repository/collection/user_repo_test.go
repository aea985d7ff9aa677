package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/testutil"
	"github.com/fastygo/tasklist/repository/file"
)

func TestUserRepository_AppendAndFind(t *testing.T) {
	store, err := file.Open(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	repo := NewUserRepository(store, false)
	ctx := context.Background()

	if _, err := repo.FindByUsername(ctx, "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found on empty store, got %v", err)
	}

	if err := repo.Append(ctx, &domain.User{ID: "u1", Username: "alice", PasswordHash: "h"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	u, err := repo.FindByUsername(ctx, "alice")
	if err != nil || u.ID != "u1" {
		t.Fatalf("find by username: %v %+v", err, u)
	}
	if _, err := repo.FindByUsername(ctx, "Alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("username lookup must be case-sensitive, got %v", err)
	}
	u, err = repo.FindByID(ctx, "u1")
	if err != nil || u.Username != "alice" {
		t.Fatalf("find by id: %v %+v", err, u)
	}

	err = repo.Append(ctx, &domain.User{ID: "u2", Username: "alice", PasswordHash: "h2"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	users, err := repo.List(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("expected exactly one user, got %d (%v)", len(users), err)
	}
}

func TestUserRepository_RejectsIncompleteUser(t *testing.T) {
	repo := NewUserRepository(testutil.NewMemoryStore(), false)
	if err := repo.Append(context.Background(), &domain.User{Username: "bob"}); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}

func TestUserRepository_PropagatesStorageErrors(t *testing.T) {
	repo := NewUserRepository(testutil.FailingStore{}, false)
	_, err := repo.FindByUsername(context.Background(), "alice")
	if !errors.Is(err, testutil.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
