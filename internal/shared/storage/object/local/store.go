package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"paragraph-backend/internal/shared/util"
)

// Store keeps blobs under a base directory on the local filesystem.
// Keys are relative paths of the form <scope-hash>/<uuid>_<name>.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("local store: base dir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create base dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) Save(ctx context.Context, scope, fileName string, r io.Reader) (string, error) {
	dir := util.HashScope(scope)
	name := fmt.Sprintf("%s_%s", uuid.NewString(), util.SanitizeFileName(fileName))
	key := filepath.ToSlash(filepath.Join(dir, name))

	absDir := filepath.Join(s.baseDir, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("local store: create dir: %w", err)
	}

	f, err := os.Create(filepath.Join(absDir, name))
	if err != nil {
		return "", fmt.Errorf("local store: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("local store: write file: %w", err)
	}
	return key, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("local store: open %s: %w", key, err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local store: delete %s: %w", key, err)
	}
	return nil
}

// resolve rejects keys that would escape the base directory.
func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("local store: invalid key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}
