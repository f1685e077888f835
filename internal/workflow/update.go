package workflow

import (
	"context"

	"mdocx/internal/client"
	"mdocx/internal/errors"
	"mdocx/internal/intake"
	"mdocx/internal/log"
	"mdocx/internal/probe"
	"mdocx/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
)

// Status texts set by the orchestrator.
const (
	MsgNoFile     = "select a Markdown file first"
	MsgConverting = "converting, please wait..."
)

// Update applies msg and returns the next state with any follow-up command.
// Messages it does not know are ignored.
func (s State) Update(msg tea.Msg) (State, tea.Cmd) {
	switch msg := msg.(type) {
	case FileChosenMsg:
		if msg.Err != nil {
			s.Intake.SetDragging(false)
			log.LogWithError(msg.Err).Info("file could not be opened")
			s.fail(msg.Err, errors.UserMessage(msg.Err))
			return s, nil
		}
		if msg.Candidate == nil {
			s.Intake.Clear()
			return s, nil
		}
		return s.ingest(msg.Candidate)

	case FileClearedMsg:
		s.Intake.Clear()
		return s, nil

	case DragMsg:
		s.Intake.SetDragging(msg.Active)
		return s, nil

	case PreviewLoadedMsg:
		if _, err := s.Intake.ApplyPreview(msg.Gen, msg.Content, msg.Err); err != nil {
			log.LogWithError(err).Warn("preview read failed")
			s.fail(err, errors.UserMessage(err))
		}
		return s, nil

	case TemplateSelectedMsg:
		s.Templates.Select(msg.Name)
		return s, nil

	case probe.HealthMsg:
		probe.ApplyHealth(&s.Status, msg)
		return s, nil

	case probe.TemplatesMsg:
		probe.ApplyTemplates(&s.Status, &s.Templates, msg)
		return s, nil

	case SubmitMsg:
		return s.submit()

	case requestBuiltMsg:
		if s.phase != Submitting {
			return s, nil
		}
		s.phase = AwaitingResponse
		return s, convert(s.deps.Converter, msg.req)

	case ResponseMsg:
		if s.phase != AwaitingResponse {
			return s, nil
		}
		return s.respond(msg.Outcome)

	case DownloadedMsg:
		if s.phase != Succeeded {
			return s, nil
		}
		if msg.Err != nil {
			log.LogWithError(msg.Err).Error("saving document failed")
			s.fail(msg.Err, errors.UserMessage(msg.Err))
			s.finish(Failed)
			return s, nil
		}
		s.lastPath = msg.Path
		s.Status.Success("conversion complete, saved " + msg.Path)
		s.finish(Succeeded)
		return s, nil
	}
	return s, nil
}

func (s State) ingest(c intake.Candidate) (State, tea.Cmd) {
	s.Intake.SetDragging(false)
	gen, err := s.Intake.Ingest(c)
	if err != nil {
		log.LogWithError(err).Info("file rejected")
		s.fail(err, errors.UserMessage(err))
		return s, nil
	}
	s.Status.Clear()
	s.lastErr = nil
	return s, readPreview(gen, s.Intake.Source())
}

func (s State) submit() (State, tea.Cmd) {
	if s.busy {
		log.Debug("submission dropped, conversion in flight")
		return s, nil
	}
	file := s.Intake.File()
	if file == nil {
		s.fail(errors.NewFileError(MsgNoFile, "", errors.InvalidFile, nil), MsgNoFile)
		return s, nil
	}

	s.busy = true
	s.phase = Submitting
	s.lastErr = nil
	s.Status.Info(MsgConverting)

	req := types.ConversionRequest{
		File:     *file,
		Template: s.Templates.Selected(),
		Source:   s.Intake.Source(),
	}
	return s, func() tea.Msg { return requestBuiltMsg{req: req} }
}

func (s State) respond(o types.ConversionOutcome) (State, tea.Cmd) {
	if !o.Succeeded() {
		s.fail(o.Err, failureText(o.Err))
		s.finish(Failed)
		return s, nil
	}
	s.phase = Succeeded
	return s, deliver(s.deps.Downloader, o.Data, o.Filename)
}

func (s *State) fail(err error, text string) {
	s.lastErr = err
	s.Status.Error(text)
}

// finish records a terminal outcome, releases the busy flag and returns to
// Idle.
func (s *State) finish(outcome Phase) {
	s.last = outcome
	s.finished++
	s.busy = false
	s.phase = Idle
}

func failureText(err error) string {
	if errors.IsNetwork(err) {
		return client.MsgUnreachable
	}
	return "conversion failed: " + errors.UserMessage(err)
}

func readPreview(gen uint64, src types.Opener) tea.Cmd {
	return func() tea.Msg {
		content, err := intake.ReadPreview(src)
		return PreviewLoadedMsg{Gen: gen, Content: content, Err: err}
	}
}

func convert(conv Converter, req types.ConversionRequest) tea.Cmd {
	return func() tea.Msg {
		doc, err := conv.Convert(context.Background(), req)
		if err != nil {
			return ResponseMsg{Outcome: types.ConversionOutcome{Err: err}}
		}
		return ResponseMsg{Outcome: types.ConversionOutcome{Data: doc.Data, Filename: doc.Filename}}
	}
}

// deliver saves the document exactly once per successful response.
func deliver(d Downloader, data []byte, filename string) tea.Cmd {
	return func() tea.Msg {
		path, err := d.Deliver(data, filename)
		return DownloadedMsg{Path: path, Err: err}
	}
}
