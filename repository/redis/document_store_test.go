package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasklist/repository"
)

func TestDocumentStore_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	client := redislib.NewClient(opts)
	store := NewDocumentStore(client, "tasklist-test:")
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_ = client.Del(ctx, "tasklist-test:todos").Err()

	if _, err := store.Load(ctx, "todos"); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := store.Save(ctx, "todos", []byte(`[]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "todos")
	if err != nil || string(got) != `[]` {
		t.Fatalf("Load: %v %s", err, got)
	}
}
