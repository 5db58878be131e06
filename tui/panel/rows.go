package panel

import (
	"github.com/eminiarts/tweakpine/schema"
)

// row is one visible line: a control, or one parameter of an open spring.
type row struct {
	meta  schema.ControlMeta
	depth int
	field *schema.SpringField
}

func (r row) key() string {
	if r.field != nil {
		return r.meta.Path + "#" + r.field.Key
	}
	return r.meta.Path
}

func (r row) label() string {
	if r.field != nil {
		return r.field.Label
	}
	return r.meta.Label
}

// refresh rebuilds the visible rows, keeping the cursor on the same row.
func (m *Model) refresh() {
	current := ""
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		current = m.rows[m.cursor].key()
	}

	panel, ok := m.store.GetPanel(m.panelID)
	if !ok {
		m.rows = nil
		m.cursor = 0
		return
	}

	m.rows = nil
	m.appendRows(panel.Controls, 0)

	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	for i, r := range m.rows {
		if r.key() == current {
			m.cursor = i
			break
		}
	}
}

func (m *Model) appendRows(controls []schema.ControlMeta, depth int) {
	for _, c := range controls {
		m.rows = append(m.rows, row{meta: c, depth: depth})
		switch c.Kind {
		case schema.KindFolder:
			if m.open[c.Path] {
				m.appendRows(c.Children, depth+1)
			}
		case schema.KindSpring:
			if m.open[c.Path] {
				mode, _ := m.store.GetSpringMode(m.panelID, c.Path)
				for _, f := range schema.FieldsFor(mode) {
					f := f
					m.rows = append(m.rows, row{meta: c, depth: depth + 1, field: &f})
				}
			}
		}
	}
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
