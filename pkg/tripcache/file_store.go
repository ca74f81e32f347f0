package tripcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trip-assistant-be/pkg/travel"
)

// FileStore keeps one user_<id>.json document per user in a directory
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path keeps only characters that are safe in a file name
func (s *FileStore) path(userID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, userID)
	return filepath.Join(s.dir, "user_"+safe+".json")
}

func (s *FileStore) Load(_ context.Context, userID string) (*TripCache, error) {
	raw, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	var c TripCache
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", userID, ErrCorrupt, err)
	}
	return &c, nil
}

// Save writes to a temporary file and renames it over the document
func (s *FileStore) Save(_ context.Context, c *TripCache) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(s.dir, "user_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w: %w", travel.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w: %w", travel.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w: %w", travel.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w: %w", travel.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.path(c.UserID)); err != nil {
		return fmt.Errorf("replace %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, userID string) error {
	err := os.Remove(s.path(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	return nil
}

func (s *FileStore) DeleteAll(_ context.Context) error {
	files, err := filepath.Glob(filepath.Join(s.dir, "user_*.json"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w: %w", f, travel.ErrPersistence, err)
		}
	}
	return nil
}
