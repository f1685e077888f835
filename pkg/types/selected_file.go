package types

import (
	"fmt"
	"io"
	"strings"
)

// Opener gives access to the raw bytes of a file chosen by the user.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// SelectedFile is the Markdown file currently staged for conversion.
// Content is filled in once the preview read completes.
type SelectedFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Content  string `json:"-"`
}

// HasPreview reports whether the text content has been loaded.
func (f *SelectedFile) HasPreview() bool {
	return f != nil && f.Content != ""
}

// WithContent returns a copy of the file carrying the given text.
func (f SelectedFile) WithContent(content string) SelectedFile {
	f.Content = content
	return f
}

// String returns a human-readable representation
func (f *SelectedFile) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Name))
	sb.WriteString(fmt.Sprintf("Type: %s\n", f.MimeType))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	return sb.String()
}
