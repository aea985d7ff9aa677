package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasklist/repository"
)

func TestDocumentStore_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	store := NewDocumentStore(pool)
	t.Cleanup(func() { _ = store.Close() })

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM documents WHERE name = 'todos-test'`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := store.Load(ctx, "todos-test"); !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := store.Save(ctx, "todos-test", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "todos-test", []byte(`[]`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, err := store.Load(ctx, "todos-test")
	if err != nil || string(got) != `[]` {
		t.Fatalf("Load: %v %s", err, got)
	}
}
