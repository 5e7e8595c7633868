// internal/store/file.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileBackend keeps one JSON array per collection in dir/<collection>.json.
type fileBackend struct {
	dir string
}

// NewFileStore opens a JSON-file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return newEngine(&fileBackend{dir: dir}), nil
}

func (b *fileBackend) name() string { return "file" }

func (b *fileBackend) path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

func (b *fileBackend) load(_ context.Context, collection string) ([]Document, error) {
	data, err := os.ReadFile(b.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Document{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return []Document{}, nil
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(b.path(collection)), err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// apply rewrites the whole collection through a temp file and rename so a
// crash mid-write never leaves a truncated array behind.
func (b *fileBackend) apply(_ context.Context, collection string, next []Document, _ mutation) error {
	if next == nil {
		next = []Document{}
	}
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, b.path(collection)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (b *fileBackend) close() error { return nil }
