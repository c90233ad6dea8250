package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// FileStorage keeps every key in one JSON object on disk.
type FileStorage struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// DataFilePath resolves name under the XDG data directory, creating parent directories.
func DataFilePath(name string) (string, error) {
	path, err := xdg.DataFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data file %s: %w", name, err)
	}

	return path, nil
}

func NewFileStorage(path string) (*FileStorage, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("can't read store %s: %w", path, err)
	case len(data) > 0:
		if err = json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("can't parse store %s: %w", path, err)
		}
	}

	return &FileStorage{path: path, values: values}, nil
}

func (that *FileStorage) Get(_ context.Context, key string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	value, ok := that.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (that *FileStorage) Set(_ context.Context, key, value string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	previous, existed := that.values[key]
	that.values[key] = value

	if err := that.flush(); err != nil {
		if existed {
			that.values[key] = previous
		} else {
			delete(that.values, key)
		}

		return err
	}

	return nil
}

func (that *FileStorage) Close() error {
	return nil
}

// flush - replaces the store file through a temp file and a rename.
func (that *FileStorage) flush() error {
	data, err := json.MarshalIndent(that.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(that.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := that.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	if err = os.Rename(tmp, that.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}

	return nil
}
