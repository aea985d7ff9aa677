package collection

import (
	"context"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

type taskRepository struct {
	tasks *repository.Collection[domain.Task]
}

// NewTaskRepository returns a TaskRepository stored as one JSON array document.
func NewTaskRepository(store repository.DocumentStore, strict bool) repository.TaskRepository {
	return &taskRepository{
		tasks: repository.NewCollection[domain.Task](store, repository.CollectionTasks, strict),
	}
}

func (r *taskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	return r.tasks.Load(ctx)
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	all, err := r.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Task, 0, len(all))
	for i := range all {
		if all[i].OwnedBy(ownerID) {
			owned = append(owned, all[i])
		}
	}
	return owned, nil
}

func (r *taskRepository) Overwrite(ctx context.Context, tasks []domain.Task) error {
	return r.tasks.Replace(ctx, tasks)
}
