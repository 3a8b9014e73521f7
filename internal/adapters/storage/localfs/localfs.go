// Package localfs stores etiqueta exports on the local disk. Paths handed to
// Save are slash-relative and become files under the configured root.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duetags/duetags/internal/domain"
)

type Storage struct {
	root string
}

func New(root string) *Storage {
	if root == "" {
		root = "data/etiquetas"
	}
	return &Storage{root: root}
}

// resolve rejects paths that would escape the root.
func (s *Storage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("caminho inválido: %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *Storage) Save(_ context.Context, path string, data []byte) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Storage) Open(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) Remove(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
