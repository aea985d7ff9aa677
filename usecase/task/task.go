package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/logger"
	"github.com/fastygo/tasklist/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger

	// mu serializes read-modify-write cycles on the task collection.
	mu sync.Mutex
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks returns the tasks owned by ownerID.
func (uc *UseCase) ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks, err := uc.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Debug("tasks listed",
		zap.String("user_id", ownerID),
		zap.Int("count", len(tasks)))
	return tasks, nil
}

// CreateTask appends a new, uncompleted task.
func (uc *UseCase) CreateTask(ctx context.Context, ownerID, text string) (*domain.Task, error) {
	text, ok := domain.NormalizeText(text)
	if !ok {
		return nil, domain.ErrInvalidTaskText
	}

	created := domain.Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Text:      text,
		Completed: false,
	}

	err := uc.mutate(ctx, func(all []domain.Task) ([]domain.Task, bool, error) {
		return append(all, created), true, nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.String("user_id", ownerID),
		zap.String("task_id", created.ID))
	return &created, nil
}

// UpdateTask applies patch to the caller's task. Tasks owned by someone else
// are reported as not found.
func (uc *UseCase) UpdateTask(ctx context.Context, ownerID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if !patch.Valid() {
		return nil, domain.ErrInvalidTaskUpdate
	}

	var updated domain.Task
	err := uc.mutate(ctx, func(all []domain.Task) ([]domain.Task, bool, error) {
		idx := indexOwned(all, ownerID, id)
		if idx < 0 {
			return nil, false, domain.ErrTaskNotFound
		}
		patch.Apply(&all[idx])
		updated = all[idx]
		return all, true, nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task updated",
		zap.String("user_id", ownerID),
		zap.String("task_id", id))
	return &updated, nil
}

// DeleteTask removes the caller's task.
func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, id string) error {
	err := uc.mutate(ctx, func(all []domain.Task) ([]domain.Task, bool, error) {
		idx := indexOwned(all, ownerID, id)
		if idx < 0 {
			return nil, false, domain.ErrTaskNotFound
		}
		return append(all[:idx], all[idx+1:]...), true, nil
	})
	if err != nil {
		return err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task deleted",
		zap.String("user_id", ownerID),
		zap.String("task_id", id))
	return nil
}

// ClearCompleted removes every completed task owned by ownerID and returns how
// many were removed. Nothing is written when the count is zero.
func (uc *UseCase) ClearCompleted(ctx context.Context, ownerID string) (int, error) {
	var removed int
	err := uc.mutate(ctx, func(all []domain.Task) ([]domain.Task, bool, error) {
		remaining := make([]domain.Task, 0, len(all))
		for i := range all {
			if all[i].OwnedBy(ownerID) && all[i].Completed {
				removed++
				continue
			}
			remaining = append(remaining, all[i])
		}
		return remaining, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("completed tasks cleared",
		zap.String("user_id", ownerID),
		zap.Int("deleted", removed))
	return removed, nil
}

// mutate runs one read-modify-write cycle. fn returns the new collection and
// whether it must be written back.
func (uc *UseCase) mutate(ctx context.Context, fn func([]domain.Task) ([]domain.Task, bool, error)) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	all, err := uc.tasks.ListAll(ctx)
	if err != nil {
		return err
	}
	next, write, err := fn(all)
	if err != nil || !write {
		return err
	}
	return uc.tasks.Overwrite(ctx, next)
}

func indexOwned(tasks []domain.Task, ownerID, id string) int {
	for i := range tasks {
		if tasks[i].ID == id && tasks[i].OwnedBy(ownerID) {
			return i
		}
	}
	return -1
}
