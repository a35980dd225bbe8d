package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSnapshot is reported by a Snapshotter when no previous snapshot
// exists. The store treats it as an empty first start.
var ErrNoSnapshot = errors.New("no snapshot found")

// Snapshotter persists the serialized store collection wholesale: one
// blob, loaded at startup, overwritten after every successful batch
// insert.
type Snapshotter interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// FileSnapshot stores the snapshot as a single file on disk.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: filepath.Clean(path)}
}

func (f *FileSnapshot) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot %q: %w", f.path, err)
	}
	return data, nil
}

// Save writes to a temporary file and renames it over the snapshot, so
// a crash mid-write never leaves a truncated snapshot behind.
func (f *FileSnapshot) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename snapshot %q: %w", f.path, err)
	}

	return nil
}
