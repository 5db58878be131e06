package keymap

import "github.com/charmbracelet/bubbles/key"

// Help view groups.
const (
	SectionNavigation = "Navigation"
	SectionEditing    = "Editing"
	SectionPresets    = "Presets"
	SectionSystem     = "System"
)

// Section is a titled group of bindings.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// NewSection groups bindings under name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// Enabled returns the bindings that are currently active.
func (s Section) Enabled() []key.Binding {
	enabled := make([]key.Binding, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		if b.Enabled() {
			enabled = append(enabled, b)
		}
	}
	return enabled
}

// Empty reports whether no binding of the section is active.
func (s Section) Empty() bool {
	for _, b := range s.Bindings {
		if b.Enabled() {
			return false
		}
	}
	return true
}
