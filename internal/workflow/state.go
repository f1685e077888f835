// Package workflow is the conversion orchestrator. State is an explicit
// record updated by a pure reducer; every side effect is returned as a
// tea.Cmd whose result comes back as a message.
package workflow

import (
	"context"

	"mdocx/internal/client"
	"mdocx/internal/intake"
	"mdocx/internal/probe"
	"mdocx/internal/status"
	"mdocx/internal/templates"
	"mdocx/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase is the orchestrator's position in a conversion.
type Phase int

const (
	Idle Phase = iota
	Submitting
	AwaitingResponse
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Submitting:
		return "submitting"
	case AwaitingResponse:
		return "awaiting_response"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Converter sends a conversion request to the remote service.
type Converter interface {
	Convert(ctx context.Context, req types.ConversionRequest) (*client.Document, error)
}

// Downloader hands a generated document to the user.
type Downloader interface {
	Deliver(data []byte, filename string) (string, error)
}

// Deps are the capabilities the reducer's commands close over.
type Deps struct {
	Converter  Converter
	Downloader Downloader
	// Probe is optional; without it no startup queries run.
	Probe probe.Service
}

// State is the whole client state. It is copied on every update.
type State struct {
	deps Deps

	Intake    intake.Controller
	Templates templates.Selector
	Status    status.Reporter

	phase    Phase
	busy     bool
	last     Phase
	lastPath string
	lastErr  error
	finished int
}

// New returns an idle state. defaultTemplate is preselected, if any.
func New(deps Deps, maxSize int64, defaultTemplate string) State {
	s := State{
		deps:   deps,
		Intake: intake.NewController(maxSize),
	}
	s.Templates.Select(defaultTemplate)
	return s
}

// Init starts the capability probe.
func (s State) Init() tea.Cmd {
	return probe.Run(s.deps.Probe)
}

// Phase returns the current phase.
func (s State) Phase() Phase { return s.phase }

// Busy reports whether a conversion is in flight. Submissions are dropped
// while it is set.
func (s State) Busy() bool { return s.busy }

// Finished counts conversions that reached a terminal state.
func (s State) Finished() int { return s.finished }

// LastOutcome is Succeeded or Failed for the latest finished conversion, or
// Idle before the first one.
func (s State) LastOutcome() Phase { return s.last }

// LastPath is where the latest successful conversion was saved.
func (s State) LastPath() string { return s.lastPath }

// Err returns the error behind the current error status, if any.
func (s State) Err() error { return s.lastErr }
