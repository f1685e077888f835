package types

// Severity classifies a status message for rendering.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// IsProblem reports whether the severity should be rendered as an error.
func (s Severity) IsProblem() bool {
	return s == SeverityWarning || s == SeverityError
}

// StatusMessage is the single user-facing message currently shown.
type StatusMessage struct {
	Text     string
	Severity Severity
}

// Empty reports whether no message is set.
func (m StatusMessage) Empty() bool {
	return m.Text == ""
}
