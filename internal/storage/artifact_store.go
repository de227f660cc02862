package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ArtifactStore holds submission archives. The lifecycle core never touches
// bytes; it only carries the opaque reference returned by Save.
type ArtifactStore interface {
	Save(name string, r io.Reader) (string, error)
	Open(ref string) (io.ReadCloser, error)
}

// LocalStore writes artifacts under a base directory. References are
// relative paths so the base directory can move between environments.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	ref := filepath.Join(uuid.New().String(), sanitizeName(name))
	full := filepath.Join(s.baseDir, ref)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact subdirectory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) Open(ref string) (io.ReadCloser, error) {
	clean := filepath.Clean(ref)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, errors.New("artifact reference escapes the store")
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "submission.zip"
	}
	return name
}
