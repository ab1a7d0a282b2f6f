package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type fileSnapshot struct {
	Version   int               `json:"version"`
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FileStore persists every value in a single JSON document. Each change writes
// a sibling temp file and renames it over the document, so a crash mid-write
// leaves the previous version intact.
type FileStore struct {
	mu   sync.RWMutex
	snap *fileSnapshot
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(raw) == 0 {
		s.snap = &fileSnapshot{Version: 1, Values: map[string]string{}, UpdatedAt: time.Now()}
		return s.flushLocked()
	}
	var snap fileSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return err
	}
	if snap.Values == nil {
		snap.Values = map[string]string{}
	}
	s.snap = &snap
	return nil
}

func (s *FileStore) flushLocked() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) withWrite(ctx context.Context, fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	fn(s.snap.Values)
	s.snap.UpdatedAt = time.Now()
	return errors.Wrap(s.flushLocked(), "flush storage file")
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.snap.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	return s.withWrite(ctx, func(values map[string]string) {
		values[key] = value
	})
}

func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	return s.withWrite(ctx, func(values map[string]string) {
		for _, k := range keys {
			delete(values, k)
		}
	})
}

func (s *FileStore) Close() error { return nil }
