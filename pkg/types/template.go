package types

// Template is a formatting preset known to the conversion service. The name
// doubles as the selection key.
type Template struct {
	Name string `json:"name"`
}

// NoTemplate is the selection value meaning "convert without a template".
const NoTemplate = ""
