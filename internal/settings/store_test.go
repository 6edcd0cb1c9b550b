package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_InitCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	s := NewFileStore(path, 1920, 1080)

	assert.False(t, s.Exists())
	assert.NoError(t, s.Init(1366, 768))
	assert.True(t, s.Exists())

	v, ok, err := s.Get(KeyRealWidth)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(1366), v)

	v, ok, err = s.Get(KeyExpectedHeight)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(1080), v)
}

func TestFileStore_SetPreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"language":"zh","real_width":1}`), 0o644))

	s := NewFileStore(path, 1920, 1080)
	assert.NoError(t, s.Set(KeyRealWidth, 1920))

	v, _, err := s.Get("language")
	assert.NoError(t, err)
	assert.Equal(t, "zh", v)

	v, _, err = s.Get(KeyRealWidth)
	assert.NoError(t, err)
	assert.Equal(t, float64(1920), v)
}

func TestFileStore_SetOnMissingFileCreatesIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewFileStore(path, 1920, 1080)

	assert.NoError(t, s.Set(KeyRealHeight, 1080))
	assert.True(t, s.Exists())

	_, ok, err := s.Get(KeyRealWidth)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, 1920, 1080)
	err := s.Set(KeyRealWidth, 1920)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), path)
	}
}

func TestFileStore_ExistsFalseForDirectory(t *testing.T) {
	s := NewFileStore(t.TempDir(), 1920, 1080)
	assert.False(t, s.Exists())
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "config.json"), 1920, 1080)
	assert.NoError(t, s.Init(1920, 1080))
	assert.NoError(t, s.Set(KeyRealWidth, 1600))

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
