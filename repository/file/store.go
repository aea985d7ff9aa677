package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/repository"
)

// Store keeps each document in its own human-readable JSON file.
type Store struct {
	dir    string
	files  map[string]string
	logger *zap.Logger
}

// Open prepares a file-backed document store rooted at dir. files maps
// document names to file names relative to dir; other names default to
// "<name>.json".
func Open(dir string, files map[string]string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:    dir,
		files:  files,
		logger: logger,
	}, nil
}

// Path returns the file backing the named document.
func (s *Store) Path(name string) string {
	if file, ok := s.files[name]; ok && file != "" {
		if filepath.IsAbs(file) {
			return file
		}
		return filepath.Join(s.dir, file)
	}
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("document file absent", zap.String("document", name), zap.String("path", path))
			return nil, repository.ErrDocumentNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so readers never observe a half-written document.
func (s *Store) Save(ctx context.Context, name string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(name)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	s.logger.Debug("document file written", zap.String("document", name), zap.Int("bytes", len(doc)))
	return nil
}

// Ping checks that the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

var _ repository.DocumentStore = (*Store)(nil)
