package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/logger"
	"github.com/fastygo/tasklist/repository"
	"github.com/fastygo/tasklist/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	hasher usecase.PasswordHasher
	tokens usecase.TokenIssuer
	logger *zap.Logger

	// mu serializes registrations so the uniqueness check and the append
	// observe the same collection.
	mu sync.Mutex
}

func New(users repository.UserRepository, hasher usecase.PasswordHasher, tokens usecase.TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a user and signs a token for it.
func (uc *UseCase) Register(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	log := logger.WithRequestID(ctx, uc.logger)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, err := uc.users.FindByUsername(ctx, username); err == nil {
		log.Info("registration rejected, username taken", zap.String("username", username))
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := uc.users.Append(ctx, user); err != nil {
		return nil, err
	}

	session, err := uc.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return session, nil
}

// Login verifies credentials and signs a token. Unknown users and wrong
// passwords produce the same error.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	log := logger.WithRequestID(ctx, uc.logger)

	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Info("login rejected, unknown user", zap.String("username", username))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		log.Info("login rejected, bad password", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	session, err := uc.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	log.Info("user logged in", zap.String("user_id", user.ID))
	return session, nil
}
