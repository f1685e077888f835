// Package download stores generated documents in the output directory.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mdocx/internal/config"
	"mdocx/internal/errors"
	"mdocx/internal/log"
	"mdocx/pkg/types"
)

// Collision strategies.
const (
	CollisionRename    = "rename"
	CollisionOverwrite = "overwrite"
)

// MsgSaveFailed is the status text for a document that could not be stored.
const MsgSaveFailed = "failed to save document"

// Saver writes each document through a temporary file in the output
// directory and moves it to its final name only once fully written.
type Saver struct {
	mu        sync.Mutex
	dir       string
	collision string

	// createTemp opens the transient handle; replaced in tests.
	createTemp func(dir, pattern string) (*os.File, error)
}

// New returns a Saver for dir using the given collision strategy.
func New(dir, collision string) *Saver {
	if collision == "" {
		collision = CollisionRename
	}
	return &Saver{dir: dir, collision: collision, createTemp: os.CreateTemp}
}

// NewWithConfig creates a Saver from the output section of cfg.
func NewWithConfig(cfg *config.Config) *Saver {
	return New(cfg.Output.Directory, cfg.Output.Collision)
}

// Dir returns the output directory.
func (s *Saver) Dir() string { return s.dir }

// Deliver saves data under filename and returns the path written. The
// temporary handle is released on every path; nothing is left behind when
// the write fails.
func (s *Saver) Deliver(data []byte, filename string) (string, error) {
	name := outputName(filename)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.NewFileError(MsgSaveFailed, s.dir, errors.DownloadFailed, err)
	}

	tmp, err := s.createTemp(s.dir, ".mdocx-*.part")
	if err != nil {
		return "", errors.NewFileError(MsgSaveFailed, s.dir, errors.DownloadFailed, err)
	}
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Warnf("could not remove %s: %v", tmp.Name(), rmErr)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", errors.NewFileError(MsgSaveFailed, tmp.Name(), errors.DownloadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.NewFileError(MsgSaveFailed, tmp.Name(), errors.DownloadFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dest, err := s.handleCollision(filepath.Join(s.dir, name))
	if err != nil {
		return "", errors.NewFileError(MsgSaveFailed, name, errors.DownloadFailed, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", errors.NewFileError(MsgSaveFailed, dest, errors.DownloadFailed, err)
	}
	committed = true

	log.LogWithFields(log.F("path", dest), log.F("bytes", len(data))).Info("document saved")
	return dest, nil
}

// handleCollision picks the final path for dest according to the strategy.
func (s *Saver) handleCollision(dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", fmt.Errorf("error checking destination %s: %w", dest, err)
	}

	switch s.collision {
	case CollisionOverwrite:
		log.Warnf("overwriting %s (strategy: overwrite)", dest)
		return dest, nil
	case CollisionRename:
		return findUniqueDestName(dest)
	default:
		return "", fmt.Errorf("unknown collision strategy: %s", s.collision)
	}
}

// findUniqueDestName numbers the base name the way browsers do for repeated
// downloads: "document (1).docx", "document (2).docx", ...
func findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s (%d)%s", base, counter, ext)
		if _, err := os.Stat(newName); os.IsNotExist(err) {
			log.Debugf("renaming to %s (strategy: rename)", newName)
			return newName, nil
		}
	}
	return "", fmt.Errorf("failed to find unique name for %s after 1000 attempts", originalPath)
}

func outputName(filename string) string {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || name == "" {
		return types.DefaultOutputName
	}
	return name
}
