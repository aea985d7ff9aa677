package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fastygo/tasklist/internal/config"
	"github.com/fastygo/tasklist/repository"
)

func TestOpen_FileDriverUsesConfiguredNames(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Store: config.StoreConfig{
		Driver:    config.DriverFile,
		DataDir:   dir,
		UsersFile: "people.json",
		TodosFile: "items.json",
	}}

	store, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), repository.CollectionTasks, []byte("[]")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "items.json")); err != nil {
		t.Fatalf("expected items.json to exist: %v", err)
	}
}

func TestOpen_BoltDriver(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Driver: config.DriverBolt},
		Bolt:  config.BoltConfig{Path: filepath.Join(t.TempDir(), "tasks.db")},
	}

	store, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
