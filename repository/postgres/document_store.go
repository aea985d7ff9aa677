package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasklist/repository"
)

type documentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore returns a Postgres-backed document store. Documents live in
// the documents table created by the bundled migrations.
func NewDocumentStore(pool *pgxpool.Pool) repository.DocumentStore {
	return &documentStore{pool: pool}
}

func (s *documentStore) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT body FROM documents WHERE name = $1`

	var body []byte
	if err := s.pool.QueryRow(ctx, query, name).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, err
	}
	return body, nil
}

func (s *documentStore) Save(ctx context.Context, name string, doc []byte) error {
	const query = `
	INSERT INTO documents (name, body, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE
	SET body = EXCLUDED.body,
		updated_at = NOW()
	`
	_, err := s.pool.Exec(ctx, query, name, doc)
	return err
}

func (s *documentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *documentStore) Close() error {
	s.pool.Close()
	return nil
}
