package common

import "mdocx/pkg/types"

type Mode int

const (
	Normal Mode = iota
	// Picking shows the file picker in place of the preview.
	Picking
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	File() *types.SelectedFile
	Dragging() bool
	Templates() []string
	SelectedTemplate() string
	Busy() bool
	ShowHelp() bool
}
