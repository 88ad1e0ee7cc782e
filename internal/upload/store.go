// Package upload stores product images on the local filesystem under a
// directory served statically, returning the relative URL persisted on the
// product record.
package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir      string
	basePath string
}

// NewStore ensures dir exists. basePath is the URL prefix the directory is
// served under (e.g. "/uploads").
func NewStore(dir, basePath string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, basePath: strings.TrimSuffix(basePath, "/")}, nil
}

// Save writes the file under a random name, keeping the original extension.
// Random names make collisions between concurrent uploads a non-issue.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.basePath + "/" + name, nil
}

// Delete removes a previously saved file given its relative URL. A missing
// file is not an error.
func (s *Store) Delete(url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}
