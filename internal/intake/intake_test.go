package intake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mdocx/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 10 * 1024 * 1024

// fakeCandidate declares whatever it is told to, independent of its content.
type fakeCandidate struct {
	name     string
	size     int64
	mimeType string
	content  string
	openErr  error
}

func (f fakeCandidate) Name() string     { return f.name }
func (f fakeCandidate) Size() int64      { return f.size }
func (f fakeCandidate) MimeType() string { return f.mimeType }
func (f fakeCandidate) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		mimeType string
		want     bool
	}{
		{"md extension", "notes.md", "", true},
		{"markdown extension", "notes.markdown", "", true},
		{"upper case extension", "README.MD", "", true},
		{"mixed case extension", "Guide.MarkDown", "application/octet-stream", true},
		{"extension wins over wrong type", "notes.md", "image/png", true},
		{"markdown type", "notes", "text/markdown", true},
		{"plain text type", "notes.txt", "text/plain; charset=utf-8", true},
		{"png", "image.png", "image/png", false},
		{"no type no extension", "Makefile", "", false},
		{"extension only inside name", "notes.md.bak", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(fakeCandidate{name: tt.file, mimeType: tt.mimeType})
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, Validate(nil))
}

func TestValidateIgnoresTypeForMarkdownNames(t *testing.T) {
	types := []string{"", "image/png", "application/pdf", "video/mp4", "application/zip"}
	names := []string{"a.md", "a.MD", "b.markdown", "B.MARKDOWN", "dir.name/c.Md"}
	for _, n := range names {
		for _, mt := range types {
			assert.True(t, Validate(fakeCandidate{name: n, mimeType: mt}), "%s as %q", n, mt)
		}
	}
}

func TestIngestRejectsInvalid(t *testing.T) {
	c := NewController(testMaxSize)

	_, err := c.Ingest(fakeCandidate{name: "image.png", size: 2048, mimeType: "image/png"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, MsgInvalidFile, errors.UserMessage(err))
	assert.False(t, c.HasFile())
	assert.Nil(t, c.File())
}

func TestIngestRejectsOversize(t *testing.T) {
	c := NewController(testMaxSize)

	for _, size := range []int64{testMaxSize + 1, 50 * 1024 * 1024} {
		_, err := c.Ingest(fakeCandidate{name: "huge.md", size: size, mimeType: "text/markdown"})
		require.Error(t, err)
		assert.Equal(t, errors.FileTooLarge, errors.KindOf(err))
		assert.Equal(t, "file size must not exceed 10 MiB", errors.UserMessage(err))
	}
	assert.False(t, c.HasFile())

	_, err := c.Ingest(fakeCandidate{name: "edge.md", size: testMaxSize})
	assert.NoError(t, err, "exactly at the ceiling is accepted")
}

func TestRejectionKeepsPriorFile(t *testing.T) {
	c := NewController(testMaxSize)
	gen, err := c.Ingest(fakeCandidate{name: "first.md", size: 10})
	require.NoError(t, err)
	_, err = c.ApplyPreview(gen, "# First", nil)
	require.NoError(t, err)

	_, err = c.Ingest(fakeCandidate{name: "image.png", mimeType: "image/png"})
	require.Error(t, err)

	require.True(t, c.HasFile())
	assert.Equal(t, "first.md", c.File().Name)
	assert.Equal(t, "# First", c.Preview())
}

func TestIngestReplacesFile(t *testing.T) {
	c := NewController(testMaxSize)

	gen1, err := c.Ingest(fakeCandidate{name: "one.md", size: 3, mimeType: "text/markdown"})
	require.NoError(t, err)
	applied, err := c.ApplyPreview(gen1, "one", nil)
	require.NoError(t, err)
	require.True(t, applied)

	gen2, err := c.Ingest(fakeCandidate{name: "two.markdown", size: 5})
	require.NoError(t, err)
	assert.NotEqual(t, gen1, gen2)

	f := c.File()
	assert.Equal(t, "two.markdown", f.Name)
	assert.Equal(t, int64(5), f.Size)
	assert.Empty(t, c.Preview(), "old preview is discarded")

	applied, err = c.ApplyPreview(gen1, "one", nil)
	assert.NoError(t, err)
	assert.False(t, applied, "stale preview is dropped")
	assert.Empty(t, c.Preview())
}

func TestApplyPreviewReadError(t *testing.T) {
	c := NewController(testMaxSize)
	gen, err := c.Ingest(fakeCandidate{name: "notes.md", size: 500, mimeType: "text/markdown"})
	require.NoError(t, err)

	applied, err := c.ApplyPreview(gen, "", fmt.Errorf("device not ready"))
	assert.True(t, applied)
	require.Error(t, err)
	assert.True(t, errors.IsRead(err))
	assert.Equal(t, MsgReadFailed, errors.UserMessage(err))

	require.True(t, c.HasFile(), "metadata survives a failed read")
	assert.Equal(t, "notes.md", c.File().Name)
	assert.Empty(t, c.Preview())
}

func TestClear(t *testing.T) {
	c := NewController(testMaxSize)
	gen, err := c.Ingest(fakeCandidate{name: "notes.md"})
	require.NoError(t, err)

	c.Clear()
	assert.False(t, c.HasFile())
	assert.Nil(t, c.Source())

	applied, _ := c.ApplyPreview(gen, "late", nil)
	assert.False(t, applied)

	c.Clear()
	assert.False(t, c.HasFile())
}

func TestControllerCopyIsIndependent(t *testing.T) {
	a := NewController(testMaxSize)
	gen, err := a.Ingest(fakeCandidate{name: "notes.md"})
	require.NoError(t, err)

	b := a
	_, err = b.ApplyPreview(gen, "text", nil)
	require.NoError(t, err)
	b.SetDragging(true)

	assert.Empty(t, a.Preview())
	assert.False(t, a.Dragging())
	assert.Equal(t, "text", b.Preview())
	assert.True(t, b.Dragging())
}

func TestReadPreview(t *testing.T) {
	text, err := ReadPreview(fakeCandidate{content: "\ufeff# Title\n\nbody"})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", text)

	text, err = ReadPreview(NewCandidate("bad.md", "", []byte{'o', 'k', 0xff}))
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFD", text)

	_, err = ReadPreview(fakeCandidate{openErr: os.ErrPermission})
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("# Notes\n\nSome text.\n"), 0o644))

	c, err := FromPath(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", c.Name())
	assert.Equal(t, int64(20), c.Size())
	assert.NotContains(t, c.MimeType(), "text/plain", "declared type follows the extension")
	assert.Contains(t, c.(Detector).Detected(), "text/plain")
	assert.True(t, Validate(c))

	pngPath := filepath.Join(dir, "image.png")
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(pngPath, pngHeader, 0o644))

	c, err = FromPath(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", c.MimeType())
	assert.Equal(t, "image/png", c.(Detector).Detected())
	assert.False(t, Validate(c))

	_, err = FromPath(dir)
	assert.True(t, errors.IsValidation(err))

	_, err = FromPath(filepath.Join(dir, "missing.md"))
	assert.True(t, errors.IsRead(err))
}

func TestFromPathDeclaredTypeIgnoresContent(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"main.go":        "package main\n\nfunc main() {}\n",
		"notes":          "# Notes without an extension\n",
		"renamed.png":    "# Markdown saved as png\n",
		"readme.txt":     "plain text\n",
		"README.MD":      "# Upper case extension\n",
		"draft.markdown": "# Draft\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	tests := []struct {
		name   string
		accept bool
	}{
		{"main.go", false},
		{"notes", false},
		{"renamed.png", false},
		{"readme.txt", true},
		{"README.MD", true},
		{"draft.markdown", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromPath(filepath.Join(dir, tt.name))
			require.NoError(t, err)
			assert.Contains(t, c.(Detector).Detected(), "text/plain")
			assert.Equal(t, tt.accept, Validate(c), "declared type %q", c.MimeType())
		})
	}
}
