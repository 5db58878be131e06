// Package panel is the terminal host of a tweak panel: a bubbletea model that
// renders a registered panel and edits it through the store.
package panel

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/store"
	"github.com/eminiarts/tweakpine/tui/keymap"
	"github.com/eminiarts/tweakpine/tui/theme"
)

// BaseLabel names the unsaved configuration when no preset is active.
const BaseLabel = "Version 1"

type inputMode int

const (
	modeBrowse inputMode = iota
	modeEdit
	modeSaveName
)

// changedMsg reports that the store notified a full update.
type changedMsg struct{}

// PresetsChangedMsg asks the panel to re-read its persisted presets, e.g.
// after the preset file changed on disk.
type PresetsChangedMsg struct{}

// Options configures a Model.
type Options struct {
	Keys     *keymap.KeyMap
	Theme    *theme.Theme
	Position string
	// Width of the panel box; 0 picks a default.
	Width int
}

// Model is the bubbletea model of one panel.
type Model struct {
	store   *store.Store
	panelID string

	keys     keymap.KeyMap
	theme    *theme.Theme
	help     help.Model
	input    textinput.Model
	position string
	boxWidth int

	mode     inputMode
	editRow  row
	open     map[string]bool
	rows     []row
	cursor   int
	showHelp bool

	status    string
	statusErr bool

	width  int
	height int

	notify chan struct{}
	unsubs []func()
}

// New builds a model for a panel already registered in s.
func New(s *store.Store, panelID string, opts Options) (Model, error) {
	if _, ok := s.GetPanel(panelID); !ok {
		return Model{}, errors.PanelNotFound(panelID)
	}

	keys := keymap.Default()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	th := opts.Theme
	if th == nil {
		th = theme.DefaultTheme
	}
	position := opts.Position
	if position == "" {
		position = config.PositionTopRight
	}
	width := opts.Width
	if width <= 0 {
		width = defaultBoxWidth
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = width - 8
	ti.Cursor.Style = th.Cursor

	h := help.New()
	h.Styles.ShortKey = th.Accent
	h.Styles.ShortDesc = th.Muted
	h.Styles.FullKey = th.Accent
	h.Styles.FullDesc = th.Muted

	m := Model{
		store:    s,
		panelID:  panelID,
		keys:     keys,
		theme:    th,
		help:     h,
		input:    ti,
		position: position,
		boxWidth: width,
		open:     make(map[string]bool),
		notify:   make(chan struct{}, 1),
	}

	unsub, err := s.Subscribe(panelID, func() {
		select {
		case m.notify <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return Model{}, err
	}
	m.unsubs = append(m.unsubs, unsub)

	panel, _ := s.GetPanel(panelID)
	for _, c := range schema.Flatten(panel.Controls) {
		if c.Kind == schema.KindFolder {
			m.open[c.Path] = c.DefaultOpen
		}
	}
	m.refresh()
	return m, nil
}

// Init starts listening for store notifications.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.notify)
}

// Close drops the model's store subscriptions.
func (m Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// PanelID returns the id of the panel being edited.
func (m Model) PanelID() string { return m.panelID }

// Status returns the last status line and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusErr = true
	if te, ok := err.(*errors.TweakError); ok {
		m.status = te.Message
		return
	}
	m.status = err.Error()
}
