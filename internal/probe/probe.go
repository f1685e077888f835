// Package probe runs the two startup queries against the conversion service
// and folds their answers into the status line and the template list.
// Neither query blocks intake; failures only degrade what is offered.
package probe

import (
	"context"

	"mdocx/internal/client"
	"mdocx/internal/errors"
	"mdocx/internal/log"
	"mdocx/internal/status"
	"mdocx/internal/templates"
	"mdocx/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// MsgPandocMissing warns that the service is up but cannot convert.
	MsgPandocMissing = "pandoc is not available, conversion may fail"
	// MsgTemplatesUnavailable is the notice for a failed template fetch.
	MsgTemplatesUnavailable = "could not load template list"
)

// Service is the read-only part of the conversion service used at startup.
type Service interface {
	Health(ctx context.Context) (client.Health, error)
	Templates(ctx context.Context) ([]types.Template, error)
}

// HealthMsg carries the result of the health query.
type HealthMsg struct {
	Health client.Health
	Err    error
}

// TemplatesMsg carries the result of the template query.
type TemplatesMsg struct {
	Templates []types.Template
	Err       error
}

// CheckHealth returns a command that queries the service health.
func CheckHealth(svc Service) tea.Cmd {
	return func() tea.Msg {
		h, err := svc.Health(context.Background())
		return HealthMsg{Health: h, Err: err}
	}
}

// FetchTemplates returns a command that fetches the template list.
func FetchTemplates(svc Service) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.Templates(context.Background())
		return TemplatesMsg{Templates: list, Err: err}
	}
}

// Run starts both queries concurrently. Each result arrives as its own
// message, in whatever order the service answers.
func Run(svc Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return tea.Batch(CheckHealth(svc), FetchTemplates(svc))
}

// ApplyHealth turns a health answer into a warning when the service is
// unreachable or reports that pandoc is missing. A service that answered
// with an error status is treated like one that left the flag out.
func ApplyHealth(r *status.Reporter, msg HealthMsg) {
	switch {
	case msg.Err != nil && !errors.IsService(msg.Err):
		log.LogWithError(msg.Err).Warn("health check failed")
		r.Warn(client.MsgUnreachable)
	case msg.Err != nil || !msg.Health.PandocAvailable:
		if msg.Err != nil {
			log.LogWithError(msg.Err).Warn("health check rejected")
		}
		r.Warn(MsgPandocMissing)
	default:
		log.Debug("conversion service healthy")
	}
}

// ApplyTemplates populates sel. On failure the list is emptied and a notice
// is shown, but only when nothing else is on the status line.
func ApplyTemplates(r *status.Reporter, sel *templates.Selector, msg TemplatesMsg) {
	if msg.Err != nil {
		log.LogWithError(msg.Err).Warn("template fetch failed")
		sel.Populate(nil)
		if !r.Pending() {
			r.Info(MsgTemplatesUnavailable)
		}
		return
	}
	sel.Populate(msg.Templates)
	log.Debugf("loaded %d templates", sel.Len())
}
