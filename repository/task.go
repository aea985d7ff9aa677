package repository

import (
	"context"

	"github.com/fastygo/tasklist/domain"
)

// TaskRepository is the task store. It has no partial updates: callers read
// the full collection, modify it and write it back.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	Overwrite(ctx context.Context, tasks []domain.Task) error
}
