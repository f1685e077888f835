package intake

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"

	"mdocx/internal/errors"
	"mdocx/pkg/types"

	"github.com/gabriel-vasile/mimetype"
)

// Candidate is a file offered for intake, before validation. Name, Size and
// MimeType are what the offering side declares; nothing is verified.
type Candidate interface {
	types.Opener
	Name() string
	Size() int64
	MimeType() string
}

// Detector is implemented by candidates whose content type was sniffed.
// The sniffed type is diagnostic only; validation uses the declared type.
type Detector interface {
	Detected() string
}

type localFile struct {
	path     string
	size     int64
	mimeType string
	detected string
}

// FromPath builds a Candidate for a file on disk. The declared media type
// comes from the extension, the way a browser labels a picked file, and is
// empty for unknown extensions.
func FromPath(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("cannot access file", path, errors.FileReadFailed, err)
	}
	if info.IsDir() {
		return nil, errors.NewFileError("not a regular file", path, errors.InvalidFile, nil)
	}

	f := &localFile{
		path:     path,
		size:     info.Size(),
		mimeType: mime.TypeByExtension(filepath.Ext(path)),
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		f.detected = mt.String()
	}
	return f, nil
}

func (f *localFile) Name() string                 { return filepath.Base(f.path) }
func (f *localFile) Size() int64                  { return f.size }
func (f *localFile) MimeType() string             { return f.mimeType }
func (f *localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// Detected returns the type sniffed from the file content.
func (f *localFile) Detected() string { return f.detected }

// Path returns the location on disk.
func (f *localFile) Path() string { return f.path }

type memFile struct {
	name     string
	mimeType string
	data     []byte
}

// NewCandidate wraps in-memory content, for example a file received from a
// GUI drop that has no stable path.
func NewCandidate(name, mimeType string, data []byte) Candidate {
	return &memFile{name: name, mimeType: mimeType, data: data}
}

func (f *memFile) Name() string     { return f.name }
func (f *memFile) Size() int64      { return int64(len(f.data)) }
func (f *memFile) MimeType() string { return f.mimeType }
func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
