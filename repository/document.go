package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names shared by every backend.
const (
	CollectionUsers = "users"
	CollectionTasks = "todos"
)

// ErrDocumentNotFound is returned by a DocumentStore when no document has been
// saved under the requested name yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists whole JSON documents by name. Every Save replaces the
// previous document entirely.
type DocumentStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, doc []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Collection reads and writes a typed JSON array stored as one document.
type Collection[T any] struct {
	store  DocumentStore
	name   string
	strict bool
}

// NewCollection binds a document name to a store. A strict collection treats an
// absent document as an error instead of an empty array.
func NewCollection[T any](store DocumentStore, name string, strict bool) *Collection[T] {
	return &Collection[T]{store: store, name: name, strict: strict}
}

// Load returns the full collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Load(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) && !c.strict {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}

	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Replace overwrites the full collection.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.store.Save(ctx, c.name, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}
