// Package status holds the single user-facing message shown by every
// front-end. Each transition overwrites it; no history is kept.
package status

import "mdocx/pkg/types"

// Reporter is a value type so that copying a workflow state copies the
// message with it.
type Reporter struct {
	current types.StatusMessage
}

func (r *Reporter) set(text string, sev types.Severity) {
	r.current = types.StatusMessage{Text: text, Severity: sev}
}

func (r *Reporter) Info(text string)    { r.set(text, types.SeverityInfo) }
func (r *Reporter) Success(text string) { r.set(text, types.SeveritySuccess) }
func (r *Reporter) Warn(text string)    { r.set(text, types.SeverityWarning) }
func (r *Reporter) Error(text string)   { r.set(text, types.SeverityError) }

// Clear removes the current message.
func (r *Reporter) Clear() {
	r.current = types.StatusMessage{}
}

// Current returns the message being shown.
func (r Reporter) Current() types.StatusMessage {
	return r.current
}

// Pending reports whether some message is already shown.
func (r Reporter) Pending() bool {
	return !r.current.Empty()
}
