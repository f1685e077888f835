package workflow

import (
	"mdocx/internal/intake"
	"mdocx/pkg/types"
)

// FileChosenMsg offers a candidate from any input path: file dialog, window
// drop, terminal paste or the inbox folder. A nil Candidate is an empty
// selection and clears the active file. Err is set when the adapter could
// not even build a candidate, for example a pasted path that does not exist.
type FileChosenMsg struct {
	Candidate intake.Candidate
	Err       error
}

// FileClearedMsg removes the active file.
type FileClearedMsg struct{}

// DragMsg reports a drag entering (Active) or leaving the drop target.
type DragMsg struct {
	Active bool
}

// PreviewLoadedMsg carries the text read for the file accepted as Gen.
type PreviewLoadedMsg struct {
	Gen     uint64
	Content string
	Err     error
}

// TemplateSelectedMsg changes the template; an empty Name means none.
type TemplateSelectedMsg struct {
	Name string
}

// SubmitMsg asks for the active file to be converted.
type SubmitMsg struct{}

// requestBuiltMsg moves a submission from Submitting to AwaitingResponse.
type requestBuiltMsg struct {
	req types.ConversionRequest
}

// ResponseMsg carries what the conversion service answered.
type ResponseMsg struct {
	Outcome types.ConversionOutcome
}

// DownloadedMsg reports where the generated document was saved.
type DownloadedMsg struct {
	Path string
	Err  error
}
