// Package intake validates files offered by the user and keeps the single
// active file together with its text preview.
package intake

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"mdocx/internal/errors"
	"mdocx/internal/log"
	"mdocx/pkg/types"

	"github.com/dustin/go-humanize"
)

// MsgInvalidFile is shown when a candidate is neither typed nor named as
// Markdown.
const MsgInvalidFile = "select a valid Markdown file (.md, .markdown)"

// MsgReadFailed is shown when the preview cannot be read.
const MsgReadFailed = "failed to read file"

var (
	acceptedTypes      = []string{".md", ".markdown", "text/markdown", "text/plain"}
	acceptedExtensions = []string{".md", ".markdown"}
)

// Validate accepts a candidate whose declared media type mentions Markdown or
// plain text, or whose name carries a Markdown extension. Either is enough.
func Validate(c Candidate) bool {
	if c == nil {
		return false
	}
	mimeType := c.MimeType()
	for _, t := range acceptedTypes {
		if strings.Contains(mimeType, t) {
			return true
		}
	}
	name := strings.ToLower(c.Name())
	for _, ext := range acceptedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// TooLargeMessage is the rejection text for files over the ceiling.
func TooLargeMessage(maxSize int64) string {
	return fmt.Sprintf("file size must not exceed %s", humanize.IBytes(uint64(maxSize)))
}

// Controller owns the active file. It is a value type: copying it copies the
// whole intake state, and the SelectedFile it points to is never mutated.
type Controller struct {
	maxSize    int64
	file       *types.SelectedFile
	source     types.Opener
	dragging   bool
	generation uint64
}

// NewController returns an empty controller with the given size ceiling.
func NewController(maxSize int64) Controller {
	return Controller{maxSize: maxSize}
}

// Ingest validates c and, when accepted, makes it the active file with an
// empty preview. The returned generation identifies the preview read that
// should follow. Rejections leave the controller untouched.
func (c *Controller) Ingest(cand Candidate) (uint64, error) {
	if !Validate(cand) {
		name := ""
		if cand != nil {
			name = cand.Name()
		}
		return 0, errors.NewFileError(MsgInvalidFile, name, errors.InvalidFile, nil)
	}
	if cand.Size() > c.maxSize {
		return 0, errors.NewFileError(TooLargeMessage(c.maxSize), cand.Name(), errors.FileTooLarge, nil)
	}

	c.generation++
	c.file = &types.SelectedFile{
		Name:     cand.Name(),
		Size:     cand.Size(),
		MimeType: cand.MimeType(),
	}
	c.source = cand

	fields := []log.Field{
		log.F("file", cand.Name()),
		log.F("size", humanize.Bytes(uint64(cand.Size()))),
		log.F("mime", cand.MimeType()),
	}
	if d, ok := cand.(Detector); ok && d.Detected() != "" {
		fields = append(fields, log.F("detected", d.Detected()))
	}
	log.LogWithFields(fields...).Debug("file accepted")

	return c.generation, nil
}

// ApplyPreview stores the text read for generation gen. Results for a file
// that has since been replaced or cleared are dropped and reported as not
// applied. A read error keeps the file but leaves the preview empty.
func (c *Controller) ApplyPreview(gen uint64, content string, readErr error) (bool, error) {
	if c.file == nil || gen != c.generation {
		return false, nil
	}
	if readErr != nil {
		return true, errors.NewFileError(MsgReadFailed, c.file.Name, errors.FileReadFailed, readErr)
	}
	updated := c.file.WithContent(content)
	c.file = &updated
	return true, nil
}

// Clear drops the active file and its preview unconditionally.
func (c *Controller) Clear() {
	c.generation++
	c.file = nil
	c.source = nil
}

// SetDragging records whether something is being dragged over the drop
// target. It only affects rendering.
func (c *Controller) SetDragging(dragging bool) {
	c.dragging = dragging
}

// File returns a copy of the active file, or nil.
func (c Controller) File() *types.SelectedFile {
	if c.file == nil {
		return nil
	}
	f := *c.file
	return &f
}

// HasFile reports whether a file is active.
func (c Controller) HasFile() bool {
	return c.file != nil
}

// Preview returns the text content of the active file.
func (c Controller) Preview() string {
	if c.file == nil {
		return ""
	}
	return c.file.Content
}

// Source returns the opener for the active file's raw bytes.
func (c Controller) Source() types.Opener {
	return c.source
}

func (c Controller) Dragging() bool     { return c.dragging }
func (c Controller) MaxSize() int64     { return c.maxSize }
func (c Controller) Generation() uint64 { return c.generation }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadPreview reads the full text of src. A leading byte-order mark is
// dropped and invalid UTF-8 sequences are replaced.
func ReadPreview(src types.Opener) (string, error) {
	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}
