// Package storage keeps chat attachments on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

type FileStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageID string, size int64, err error)
	Path(storageID string) (string, error)
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create files root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Save writes r under a fresh id that keeps the original extension.
func (s *LocalStore) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	storageID := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(s.root, storageID), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return storageID, size, nil
}

// Path resolves a storage id to an absolute path inside the root.
func (s *LocalStore) Path(storageID string) (string, error) {
	rel := filepath.Base(strings.ReplaceAll(strings.TrimSpace(storageID), "\\", "/"))
	if rel == "" || rel == "." || rel == "/" || rel != storageID {
		return "", ErrFileNotFound
	}
	abs := filepath.Join(s.root, rel)
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return abs, nil
}
