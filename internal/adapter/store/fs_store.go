package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"palate-core/internal/domain/entity"
)

// FSStore is the fast local tier of the image cache: a plain key→file mapping
// under a root directory. Content type is ignored; the key already carries
// the extension.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create local store root: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, entity.ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local store read %q: %w", key, err)
	}
	return data, nil
}

func (s *FSStore) Put(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("local store write %q: %w", key, err)
	}
	return nil
}

// keyPath maps a key onto a file directly under the root. Keys are flat names
// by construction; anything carrying a path segment is refused rather than
// resolved.
func (s *FSStore) keyPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || key != filepath.Base(key) {
		return "", fmt.Errorf("local store key %q is not a flat name", key)
	}
	return filepath.Join(s.root, key), nil
}

func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("local store list: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			keys = append(keys, e.Name())
		}
	}
	return keys, nil
}
