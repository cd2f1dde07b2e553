package popup

import (
	"image"
)

// Menu labels for the empty-area context menu.
const (
	MenuOpenFolder = "Open folder"
	MenuRegister   = "Add to context menu"
	MenuUnregister = "Remove from context menu"
)

// OnHover moves the hover highlight to index. It reports whether anything
// changed; hovering the same index again is a no-op.
func (m *Machine) OnHover(index int) bool {
	if index < 0 || index >= m.snap.Len() {
		index = NoIndex
	}
	if index == m.state.Hover {
		return false
	}

	old := m.state.Hover
	m.state.Hover = index

	tooltip := ""
	if e, ok := m.snap.At(index); ok {
		tooltip = e.TooltipText()
	}
	m.state.Tooltip = tooltip
	m.host.SetTooltip(tooltip)

	var dirty []image.Rectangle
	if old != NoIndex {
		dirty = append(dirty, m.layout.CellRect(old, m.state.Scroll))
	}
	if index != NoIndex {
		dirty = append(dirty, m.layout.CellRect(index, m.state.Scroll))
	}
	m.host.Invalidate(dirty...)
	return true
}

// OnActivate opens entry index and starts closing, through the click pulse
// when enabled. Out of range indices and inactive phases are ignored.
func (m *Machine) OnActivate(index int) bool {
	if m.state.Phase != PhaseActive {
		return false
	}
	e, ok := m.snap.At(index)
	if !ok {
		return false
	}

	m.logger.Debug("activate", "name", e.Name, "path", e.Path)
	m.launch(e.Path)
	m.state.Clicked = index
	m.host.Invalidate(m.layout.CellRect(index, m.state.Scroll))

	if m.timing.PulseEnabled {
		m.startPulse()
	} else {
		m.beginClose()
	}
	return true
}

// OnSecondaryAction shows the context menu when p is inside the window but
// not over an entry. It reports whether the menu was shown.
func (m *Machine) OnSecondaryAction(p image.Point) bool {
	if m.state.Phase != PhaseActive || !m.timing.PulseEnabled {
		return false
	}
	if !p.In(m.layout.Bounds()) {
		return false
	}
	if m.layout.HitTest(p, m.snap.Len(), m.state.Scroll) != NoIndex {
		return false
	}
	m.host.ShowMenu(p, m.Menu())
	return true
}

// Menu builds the context menu. Registration state is queried each time.
func (m *Machine) Menu() []MenuItem {
	items := []MenuItem{{
		Label: MenuOpenFolder,
		Action: func() {
			m.launch(m.snap.Folder)
			m.beginClose()
		},
	}}
	if m.registrar == nil {
		return items
	}

	if m.registrar.IsRegistered() {
		items = append(items, MenuItem{Label: MenuUnregister, Action: m.unregister})
	} else {
		items = append(items, MenuItem{Label: MenuRegister, Action: m.register})
	}
	return items
}

func (m *Machine) register() {
	if err := m.registrar.Register(); err != nil {
		m.logger.Warn("register context menu", "error", err)
		m.notify("Registration failed", err.Error(), true)
		return
	}
	m.notify("folderpop", "Added to the file manager context menu.", false)
}

func (m *Machine) unregister() {
	if err := m.registrar.Unregister(); err != nil {
		m.logger.Warn("unregister context menu", "error", err)
		m.notify("Removal failed", err.Error(), true)
		return
	}
	m.notify("folderpop", "Removed from the file manager context menu.", false)
}

func (m *Machine) notify(title, message string, isError bool) {
	if m.notifier != nil {
		m.notifier.Notify(title, message, isError)
	}
}
