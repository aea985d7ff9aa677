package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/testutil"
	"github.com/fastygo/tasklist/repository"
	"github.com/fastygo/tasklist/repository/collection"
)

func newUseCase(t *testing.T) (*UseCase, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	return New(collection.NewTaskRepository(store, false), nil), store
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateTask_TrimsAndValidates(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "alice", "  buy milk  ")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.Text != "buy milk" || created.Completed || created.OwnerID != "alice" || created.ID == "" {
		t.Fatalf("unexpected task: %+v", created)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := uc.CreateTask(ctx, "alice", text); !errors.Is(err, domain.ErrInvalidTaskText) {
			t.Fatalf("text %q: expected invalid text, got %v", text, err)
		}
	}
}

func TestUpdateTask(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, "alice", "buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tests := []struct {
		name      string
		owner     string
		patch     domain.TaskPatch
		wantErr   error
		wantText  string
		wantState bool
	}{
		{name: "no fields", owner: "alice", patch: domain.TaskPatch{}, wantErr: domain.ErrInvalidTaskUpdate},
		{name: "other owner", owner: "bob", patch: domain.TaskPatch{Completed: boolPtr(true)}, wantErr: domain.ErrTaskNotFound},
		{name: "complete", owner: "alice", patch: domain.TaskPatch{Completed: boolPtr(true)}, wantText: "buy milk", wantState: true},
		{name: "empty text ignored", owner: "alice", patch: domain.TaskPatch{Text: strPtr("   ")}, wantText: "buy milk", wantState: true},
		{name: "rename", owner: "alice", patch: domain.TaskPatch{Text: strPtr(" buy oat milk ")}, wantText: "buy oat milk", wantState: true},
		{name: "both", owner: "alice", patch: domain.TaskPatch{Text: strPtr("done"), Completed: boolPtr(false)}, wantText: "done", wantState: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.UpdateTask(ctx, tt.owner, created.ID, tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateTask: %v", err)
			}
			if got.Text != tt.wantText || got.Completed != tt.wantState {
				t.Fatalf("unexpected task: %+v", got)
			}

			listed, _ := uc.ListTasks(ctx, "alice")
			if len(listed) != 1 || listed[0] != *got {
				t.Fatalf("stored task diverges from response: %+v vs %+v", listed, got)
			}
		})
	}
}

func TestDeleteTask_OwnerScoped(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	created, _ := uc.CreateTask(ctx, "alice", "a")

	if err := uc.DeleteTask(ctx, "bob", created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found for other owner, got %v", err)
	}
	if err := uc.DeleteTask(ctx, "alice", "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	if err := uc.DeleteTask(ctx, "alice", created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if tasks, _ := uc.ListTasks(ctx, "alice"); len(tasks) != 0 {
		t.Fatalf("expected task removed, got %+v", tasks)
	}
}

func TestClearCompleted(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	n, err := uc.ClearCompleted(ctx, "alice")
	if err != nil || n != 0 {
		t.Fatalf("expected nothing cleared, got %d %v", n, err)
	}
	if store.SaveCount(repository.CollectionTasks) != 0 {
		t.Fatalf("clearing nothing must not write")
	}

	a1, _ := uc.CreateTask(ctx, "alice", "a1")
	a2, _ := uc.CreateTask(ctx, "alice", "a2")
	a3, _ := uc.CreateTask(ctx, "alice", "a3")
	b1, _ := uc.CreateTask(ctx, "bob", "b1")
	for _, id := range []string{a1.ID, a3.ID} {
		if _, err := uc.UpdateTask(ctx, "alice", id, domain.TaskPatch{Completed: boolPtr(true)}); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}
	if _, err := uc.UpdateTask(ctx, "bob", b1.ID, domain.TaskPatch{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	n, err = uc.ClearCompleted(ctx, "alice")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 cleared, got %d %v", n, err)
	}
	remaining, _ := uc.ListTasks(ctx, "alice")
	if len(remaining) != 1 || remaining[0].ID != a2.ID {
		t.Fatalf("expected only the active task to remain, got %+v", remaining)
	}
	bobs, _ := uc.ListTasks(ctx, "bob")
	if len(bobs) != 1 || !bobs[0].Completed {
		t.Fatalf("other users' completed tasks must remain, got %+v", bobs)
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.CreateTask(ctx, "alice", "task"); err != nil {
				t.Errorf("CreateTask: %v", err)
			}
		}()
	}
	wg.Wait()

	tasks, err := uc.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(tasks))
	}
}

func TestStorageFailuresPropagate(t *testing.T) {
	uc := New(collection.NewTaskRepository(testutil.FailingStore{}, false), nil)
	if _, err := uc.ListTasks(context.Background(), "alice"); !errors.Is(err, testutil.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, err := uc.CreateTask(context.Background(), "alice", "x"); !errors.Is(err, testutil.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
