package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	KeyRealWidth      = "real_width"
	KeyRealHeight     = "real_height"
	KeyExpectedWidth  = "expected_width"
	KeyExpectedHeight = "expected_height"
	KeyCreatedAt      = "created_at"
)

// Store is the persisted key-value configuration shared with the rest of the tool chain.
type Store interface {
	Path() string
	Exists() bool
	Init(realWidth, realHeight int) error
	Get(key string) (any, bool, error)
	Set(key string, value any) error
}

type FileStore struct {
	path           string
	expectedWidth  int
	expectedHeight int

	mu sync.Mutex
}

func NewFileStore(path string, expectedWidth, expectedHeight int) *FileStore {
	return &FileStore{
		path:           path,
		expectedWidth:  expectedWidth,
		expectedHeight: expectedHeight,
	}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Exists() bool {
	st, err := os.Stat(s.path)
	return err == nil && !st.IsDir()
}

// Init writes the default document seeded with the measured resolution.
func (s *FileStore) Init(realWidth, realHeight int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := map[string]any{
		KeyRealWidth:      realWidth,
		KeyRealHeight:     realHeight,
		KeyExpectedWidth:  s.expectedWidth,
		KeyExpectedHeight: s.expectedHeight,
		KeyCreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	return s.write(doc)
}

func (s *FileStore) Get(key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// Set patches a single key in place. Other keys are left untouched.
func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[key] = value
	return s.write(doc)
}

func (s *FileStore) read() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", s.path, err)
	}
	doc := map[string]any{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config %s: %w", s.path, err)
	}
	return nil
}
