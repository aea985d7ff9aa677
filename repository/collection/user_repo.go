package collection

import (
	"context"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

type userRepository struct {
	users *repository.Collection[domain.User]
}

// NewUserRepository returns a UserRepository stored as one JSON array document.
func NewUserRepository(store repository.DocumentStore, strict bool) repository.UserRepository {
	return &userRepository{
		users: repository.NewCollection[domain.User](store, repository.CollectionUsers, strict),
	}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(ctx, func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(u *domain.User) bool { return u.ID == id })
}

// Append adds a user. The uniqueness check and the write are separate steps,
// so callers that need atomicity must serialize around it.
func (r *userRepository) Append(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" || user.Username == "" {
		return domain.ErrInvalidPayload
	}

	users, err := r.users.Load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	return r.users.Replace(ctx, append(users, *user))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.users.Load(ctx)
}

func (r *userRepository) find(ctx context.Context, match func(*domain.User) bool) (*domain.User, error) {
	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			user := users[i]
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
