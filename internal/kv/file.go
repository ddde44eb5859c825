package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in a single JSON object on disk.
// The whole document is rewritten on each Set.
type FileStore struct {
	filename string
	mu       sync.Mutex
}

// NewFileStore creates a FileStore backed by filename. The file is created
// on the first Set.
func NewFileStore(filename string) (*FileStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}
	return &FileStore{filename: filename}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode kv file '%s': %w", s.filename, err)
	}
	if dir := filepath.Dir(s.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for '%s': %w", s.filename, err)
		}
	}
	if err := os.WriteFile(s.filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write kv file '%s': %w", s.filename, err)
	}
	return nil
}

// read must be called with mu held
func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read kv file '%s': %w", s.filename, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode kv file '%s': %w", s.filename, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
