package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasklist/repository"
)

type documentStore struct {
	client *redislib.Client
	prefix string
}

// NewDocumentStore creates a Redis-backed document store. Each document is a
// single string key without expiry.
func NewDocumentStore(client *redislib.Client, prefix string) repository.DocumentStore {
	if prefix == "" {
		prefix = "tasklist:"
	}
	return &documentStore{
		client: client,
		prefix: prefix,
	}
}

func (s *documentStore) Load(ctx context.Context, name string) ([]byte, error) {
	result, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *documentStore) Save(ctx context.Context, name string, doc []byte) error {
	return s.client.Set(ctx, s.key(name), doc, 0).Err()
}

func (s *documentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *documentStore) Close() error {
	return s.client.Close()
}

func (s *documentStore) key(name string) string {
	return fmt.Sprintf("%s%s", s.prefix, name)
}
