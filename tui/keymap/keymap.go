package keymap

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"

	"github.com/eminiarts/tweakpine/config"
)

// KeyMap holds the bindings of the terminal panel.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
	End  key.Binding

	// Editing
	Decrease    key.Binding
	Increase    key.Binding
	DecreaseBig key.Binding
	IncreaseBig key.Binding
	Activate    key.Binding // toggle, fold, trigger, edit
	SpringMode  key.Binding

	// Presets
	SavePreset   key.Binding
	NextPreset   key.Binding
	PrevPreset   key.Binding
	DeletePreset key.Binding
	ClearPreset  key.Binding

	// System
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Default returns the standard bindings, vim keys alongside arrows.
func Default() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "decrease"),
		),
		Increase: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "increase"),
		),
		DecreaseBig: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "decrease x10"),
		),
		IncreaseBig: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "increase x10"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle/edit/run"),
		),
		SpringMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "spring mode"),
		),
		SavePreset: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save preset"),
		),
		NextPreset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
		),
		PrevPreset: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "previous preset"),
		),
		DeletePreset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete preset"),
		),
		ClearPreset: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "base values"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Load returns the default bindings with the overrides from cfg applied.
// Override names are the snake_case field names, e.g. "save_preset".
func Load(cfg *config.Config) KeyMap {
	km := Default()
	if cfg == nil || len(cfg.Panel.Keys) == 0 {
		return km
	}
	bindings := km.byName()
	names := make([]string, 0, len(cfg.Panel.Keys))
	for name := range cfg.Panel.Keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if b, ok := bindings[name]; ok {
			updateBinding(b, cfg.Panel.Keys[name])
		}
	}
	return km
}

// Helper to update a binding with new keys while preserving the help description
func updateBinding(binding *key.Binding, keys []string) {
	if len(keys) > 0 {
		helpDesc := binding.Help().Desc
		*binding = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], helpDesc),
		)
	}
}

func (k *KeyMap) byName() map[string]*key.Binding {
	return map[string]*key.Binding{
		"up":            &k.Up,
		"down":          &k.Down,
		"top":           &k.Top,
		"end":           &k.End,
		"decrease":      &k.Decrease,
		"increase":      &k.Increase,
		"decrease_big":  &k.DecreaseBig,
		"increase_big":  &k.IncreaseBig,
		"activate":      &k.Activate,
		"spring_mode":   &k.SpringMode,
		"save_preset":   &k.SavePreset,
		"next_preset":   &k.NextPreset,
		"prev_preset":   &k.PrevPreset,
		"delete_preset": &k.DeletePreset,
		"clear_preset":  &k.ClearPreset,
		"confirm":       &k.Confirm,
		"cancel":        &k.Cancel,
		"help":          &k.Help,
		"quit":          &k.Quit,
	}
}

// Names lists the names accepted as overrides.
func Names() []string {
	km := Default()
	names := make([]string, 0, len(km.byName()))
	for name := range km.byName() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Decrease, k.Increase, k.Activate, k.SavePreset, k.Help, k.Quit}
}

// FullHelp returns every binding grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	sections := k.Sections()
	out := make([][]key.Binding, len(sections))
	for i, s := range sections {
		out[i] = s.Bindings
	}
	return out
}

// Sections groups the bindings for the help view.
func (k KeyMap) Sections() []Section {
	return []Section{
		NewSection(SectionNavigation, k.Up, k.Down, k.Top, k.End),
		NewSection(SectionEditing, k.Decrease, k.Increase, k.DecreaseBig, k.IncreaseBig, k.Activate, k.SpringMode),
		NewSection(SectionPresets, k.SavePreset, k.NextPreset, k.PrevPreset, k.DeletePreset, k.ClearPreset),
		NewSection(SectionSystem, k.Help, k.Quit),
	}
}
