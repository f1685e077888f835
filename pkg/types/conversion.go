package types

// DefaultOutputName is used when the service does not name the document.
const DefaultOutputName = "document.docx"

// ConversionRequest is built when a conversion starts and discarded once the
// outcome is known.
type ConversionRequest struct {
	File     SelectedFile
	Template string
	Source   Opener
}

// HasTemplate reports whether a template was chosen for this request.
func (r ConversionRequest) HasTemplate() bool {
	return r.Template != NoTemplate
}

// ConversionOutcome is either a generated document or a failure.
type ConversionOutcome struct {
	Data     []byte
	Filename string
	Err      error
}

// Succeeded reports whether the service produced a document.
func (o ConversionOutcome) Succeeded() bool {
	return o.Err == nil
}
