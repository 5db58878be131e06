package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.boxWidth - 4
		return m, nil

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.notify)

	case PresetsChangedMsg:
		changed, err := m.store.ReloadPresets(m.panelID)
		if err != nil {
			m.setError(err)
		} else if changed {
			m.setStatus("Presets reloaded from disk")
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit, modeSaveName:
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, 0, len(m.rows)-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, 0, len(m.rows)-1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = clamp(len(m.rows)-1, 0, len(m.rows)-1)
	case key.Matches(msg, m.keys.Decrease):
		m.adjust(-1)
	case key.Matches(msg, m.keys.Increase):
		m.adjust(1)
	case key.Matches(msg, m.keys.DecreaseBig):
		m.adjust(-10)
	case key.Matches(msg, m.keys.IncreaseBig):
		m.adjust(10)
	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	case key.Matches(msg, m.keys.SpringMode):
		m.toggleSpringMode()
	case key.Matches(msg, m.keys.SavePreset):
		m.mode = modeSaveName
		m.input.Reset()
		m.input.Placeholder = "Preset name"
		m.input.Prompt = "Save as: "
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NextPreset):
		m.cyclePreset(1)
	case key.Matches(msg, m.keys.PrevPreset):
		m.cyclePreset(-1)
	case key.Matches(msg, m.keys.DeletePreset):
		m.deleteActivePreset()
	case key.Matches(msg, m.keys.ClearPreset):
		if err := m.store.ClearActivePreset(m.panelID); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Back to %s", BaseLabel)
		}
	}
	m.refresh()
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		var done bool
		if m.mode == modeSaveName {
			done = m.savePreset(value)
		} else {
			done = m.commitEdit(value)
		}
		if done {
			m.endInput()
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) startEdit(r row, current string) tea.Cmd {
	m.mode = modeEdit
	m.editRow = r
	m.input.Reset()
	m.input.Prompt = r.label() + ": "
	m.input.Placeholder = ""
	if t, ok := r.meta.Node.(schema.Text); ok {
		m.input.Placeholder = t.Placeholder
	}
	m.input.SetValue(current)
	m.input.CursorEnd()
	return m.input.Focus()
}

// adjust moves the selected number, spring parameter or select by steps.
func (m *Model) adjust(steps float64) {
	r, ok := m.selected()
	if !ok {
		return
	}
	current, _ := m.store.GetValue(m.panelID, r.meta.Path)

	var next interface{}
	switch {
	case r.field != nil:
		spring, _ := current.(schema.SpringConfig)
		f := *r.field
		v := schema.RoundToStep(spring.Field(f.Key)+steps*f.Step, f.Step)
		v = math.Min(math.Max(v, f.Min), f.Max)
		next = spring.WithField(f.Key, v)
	default:
		switch n := r.meta.Node.(type) {
		case schema.Number:
			v, _ := current.(float64)
			next = schema.RoundToStep(v+steps*n.Step, n.Step)
		case schema.Select:
			s, _ := current.(string)
			idx := n.OptionIndex(s) + int(math.Copysign(1, steps))
			idx = (idx + len(n.Options)) % len(n.Options)
			next = n.Options[idx].Value
		case schema.Boolean:
			b, _ := current.(bool)
			next = !b
		default:
			return
		}
	}
	if err := m.store.UpdateValue(m.panelID, r.meta.Path, next); err != nil {
		m.setError(err)
	}
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	if r.field != nil {
		spring, _ := m.currentSpring(r.meta.Path)
		cmd := m.startEdit(r, formatNumber(spring.Field(r.field.Key), r.field.Step))
		return m, cmd
	}

	current, _ := m.store.GetValue(m.panelID, r.meta.Path)
	switch n := r.meta.Node.(type) {
	case *schema.Config, schema.Spring:
		m.open[r.meta.Path] = !m.open[r.meta.Path]
	case schema.Boolean, schema.Select:
		m.adjust(1)
	case schema.Action:
		if err := m.store.TriggerAction(m.panelID, r.meta.Path); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Ran %s", r.label())
		}
	case schema.Number:
		v, _ := current.(float64)
		cmd := m.startEdit(r, formatNumber(v, n.Step))
		return m, cmd
	case schema.Text, schema.Color:
		s, _ := current.(string)
		cmd := m.startEdit(r, s)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m *Model) commitEdit(input string) bool {
	r := m.editRow
	var value interface{} = input

	switch {
	case r.field != nil:
		f, err := strconv.ParseFloat(input, 64)
		if err != nil {
			m.setError(fmt.Errorf("'%s' is not a number", input))
			return false
		}
		spring, _ := m.currentSpring(r.meta.Path)
		f = math.Min(math.Max(f, r.field.Min), r.field.Max)
		value = spring.WithField(r.field.Key, f)
	case r.meta.Kind == schema.KindNumber:
		f, err := strconv.ParseFloat(input, 64)
		if err != nil {
			m.setError(fmt.Errorf("'%s' is not a number", input))
			return false
		}
		value = f
	}

	if err := m.store.UpdateValue(m.panelID, r.meta.Path, value); err != nil {
		m.setError(err)
		return false
	}
	m.setStatus("Set %s", r.label())
	return true
}

func (m *Model) currentSpring(path string) (schema.SpringConfig, bool) {
	v, err := m.store.GetValue(m.panelID, path)
	if err != nil {
		return schema.SpringConfig{}, false
	}
	s, ok := v.(schema.SpringConfig)
	return s, ok
}

func (m *Model) toggleSpringMode() {
	r, ok := m.selected()
	if !ok || r.meta.Kind != schema.KindSpring {
		return
	}
	mode, err := m.store.GetSpringMode(m.panelID, r.meta.Path)
	if err != nil {
		m.setError(err)
		return
	}
	next := schema.SpringAdvanced
	if mode == schema.SpringAdvanced {
		next = schema.SpringSimple
	}
	if err := m.store.UpdateSpringMode(m.panelID, r.meta.Path, next); err != nil {
		m.setError(err)
		return
	}
	m.open[r.meta.Path] = true
	m.setStatus("%s: %s mode", r.meta.Label, next)
}

// savePreset reports whether the preset was created. It may exist for this
// session only when persisting failed.
func (m *Model) savePreset(name string) bool {
	if name == "" {
		presets, _ := m.store.GetPresets(m.panelID)
		name = fmt.Sprintf("Preset %d", len(presets)+1)
	}
	_, err := m.store.SavePreset(m.panelID, name)
	if err != nil {
		m.setError(err)
		return errors.Is(err, errors.ErrCodePersistence)
	}
	m.setStatus("Saved preset %s", name)
	return true
}

func (m *Model) cyclePreset(dir int) {
	presets, err := m.store.GetPresets(m.panelID)
	if err != nil {
		m.setError(err)
		return
	}
	if len(presets) == 0 {
		m.setStatus("No presets saved yet")
		return
	}
	active, _ := m.store.GetActivePresetID(m.panelID)
	idx := -1
	for i, p := range presets {
		if p.ID == active {
			idx = i
		}
	}
	switch {
	case idx < 0 && dir < 0:
		idx = len(presets) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + dir + len(presets)) % len(presets)
	}
	if err := m.store.LoadPreset(m.panelID, presets[idx].ID); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Loaded preset %s", presets[idx].Name)
}

func (m *Model) deleteActivePreset() {
	active, _ := m.store.GetActivePresetID(m.panelID)
	if active == "" {
		m.setStatus("No active preset to delete")
		return
	}
	presets, _ := m.store.GetPresets(m.panelID)
	name := active
	for _, p := range presets {
		if p.ID == active {
			name = p.Name
		}
	}
	if err := m.store.DeletePreset(m.panelID, active); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Deleted preset %s", name)
}
