package repository

import (
	"context"

	"github.com/fastygo/tasklist/domain"
)

// UserRepository is the credential store. Lookups that find nothing return
// domain.ErrUserNotFound.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Append(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}
