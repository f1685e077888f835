// Package templates keeps the template list reported by the conversion
// service and the user's current choice.
package templates

import "mdocx/pkg/types"

// Selector holds the fetched templates in service order and the selected
// name. The selection is not checked against the list; the service decides
// what an unknown name means.
type Selector struct {
	items    []types.Template
	selected string
}

// Populate replaces the list. Duplicate and empty names are dropped, keeping
// the first occurrence.
func (s *Selector) Populate(items []types.Template) {
	seen := make(map[string]bool, len(items))
	list := make([]types.Template, 0, len(items))
	for _, t := range items {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		list = append(list, t)
	}
	s.items = list
}

// Select stores name, or types.NoTemplate to convert without one.
func (s *Selector) Select(name string) {
	s.selected = name
}

// Selected returns the chosen name, or types.NoTemplate.
func (s Selector) Selected() string {
	return s.selected
}

// Items returns a copy of the list.
func (s Selector) Items() []types.Template {
	out := make([]types.Template, len(s.items))
	copy(out, s.items)
	return out
}

// Names returns the template names in order.
func (s Selector) Names() []string {
	names := make([]string, len(s.items))
	for i, t := range s.items {
		names[i] = t.Name
	}
	return names
}

func (s Selector) Len() int { return len(s.items) }

// Contains reports whether name is in the fetched list.
func (s Selector) Contains(name string) bool {
	for _, t := range s.items {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Cycle moves the selection by delta through "no template" followed by each
// listed template, wrapping at both ends. An unlisted selection restarts from
// "no template".
func (s *Selector) Cycle(delta int) {
	n := len(s.items) + 1
	pos := 0
	for i, t := range s.items {
		if t.Name == s.selected {
			pos = i + 1
			break
		}
	}
	pos = ((pos+delta)%n + n) % n
	if pos == 0 {
		s.selected = types.NoTemplate
		return
	}
	s.selected = s.items[pos-1].Name
}
