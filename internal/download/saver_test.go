package download

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mdocx/internal/config"
	"mdocx/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docBytes = []byte{'P', 'K', 0x03, 0x04, 0xff, 0x00}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDeliver(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, CollisionRename)

	path, err := s.Deliver(docBytes, "document.docx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "document.docx"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, docBytes, got)
	assert.Equal(t, []string{"document.docx"}, listDir(t, dir), "temporary file must be gone")
}

func TestDeliverRename(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "")

	first, err := s.Deliver([]byte("one"), "document.docx")
	require.NoError(t, err)
	second, err := s.Deliver([]byte("two"), "document.docx")
	require.NoError(t, err)
	third, err := s.Deliver([]byte("three"), "document.docx")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "document.docx"), first)
	assert.Equal(t, filepath.Join(dir, "document (1).docx"), second)
	assert.Equal(t, filepath.Join(dir, "document (2).docx"), third)

	got, _ := os.ReadFile(first)
	assert.Equal(t, "one", string(got))
}

func TestDeliverOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, CollisionOverwrite)

	_, err := s.Deliver([]byte("old"), "report.docx")
	require.NoError(t, err)
	path, err := s.Deliver([]byte("new"), "report.docx")
	require.NoError(t, err)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(got))
	assert.Equal(t, []string{"report.docx"}, listDir(t, dir))
}

func TestDeliverUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.docx"), nil, 0644))
	s := New(dir, "skip")

	_, err := s.Deliver(docBytes, "document.docx")
	require.Error(t, err)
	assert.True(t, errors.IsDownload(err))
	assert.Equal(t, MsgSaveFailed, errors.UserMessage(err))
	assert.Equal(t, []string{"document.docx"}, listDir(t, dir), "uncommitted handle must be released")
}

func TestDeliverReleasesHandleOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, CollisionRename)
	s.createTemp = func(dir, pattern string) (*os.File, error) {
		f, err := os.CreateTemp(dir, pattern)
		if err != nil {
			return nil, err
		}
		name := f.Name()
		f.Close()
		return os.Open(name) // read-only, so the write fails
	}

	_, err := s.Deliver(docBytes, "document.docx")
	require.Error(t, err)
	assert.True(t, errors.IsDownload(err))
	assert.Empty(t, listDir(t, dir))
}

func TestDeliverCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "docs")
	path, err := New(dir, CollisionRename).Deliver(docBytes, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "document.docx"), path)
}

func TestDeliverStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	path, err := New(dir, CollisionRename).Deliver(docBytes, "../../escape.docx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.docx"), path)
}

func TestDeliverConcurrent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, CollisionRename)

	var wg sync.WaitGroup
	paths := make([]string, 5)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Deliver(docBytes, "document.docx")
			assert.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
	assert.Len(t, listDir(t, dir), 5)
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.NewTestConfig("http://localhost:5000", t.TempDir())
	cfg.Output.Collision = CollisionOverwrite
	s := NewWithConfig(cfg)
	assert.Equal(t, cfg.Output.Directory, s.Dir())
	assert.Equal(t, CollisionOverwrite, s.collision)
}
