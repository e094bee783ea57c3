package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cantoview/canto/internal/gallery"
)

// direction of a navigation trigger.
type direction int

const (
	forward direction = iota
	backward
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.help.Width = x.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(x)

	case imageLoadedMsg:
		if x.Err != nil {
			logrus.Debugf("load failed: %v", x.Err)
		}
		m.applyLoaded(x)
		return m, nil
	}

	return m, nil
}

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.togglePause()
		return m, nil

	case key.Matches(msg, m.keys.Advance):
		return m.trigger(msg, forward, false)

	case key.Matches(msg, m.keys.Retreat):
		return m.trigger(msg, backward, false)

	case key.Matches(msg, m.keys.PageAdvance):
		return m.trigger(msg, forward, true)

	case key.Matches(msg, m.keys.PageRetreat):
		return m.trigger(msg, backward, true)
	}

	return m, nil
}

// trigger dispatches a navigation request on the navigator's layout. Under Opt the
// request is dropped before anything is read or changed.
func (m Model) trigger(msg tea.KeyMsg, dir direction, paged bool) (Model, tea.Cmd) {
	layout := m.nav.Layout()
	if layout.Suspended() {
		return m, nil
	}
	if m.isRepeat(msg.String()) {
		return m, nil
	}

	switch layout.Kind {
	case gallery.Grid:
		steps := 1
		if paged {
			steps = layout.PageSize
		}
		cmds := make([]tea.Cmd, 0, steps)
		for i := 0; i < steps; i++ {
			cmds = append(cmds, m.reveal(m.step(dir)))
		}
		return m, tea.Batch(cmds...)

	case gallery.Slide:
		if !paged {
			return m, m.showSlide(m.step(dir))
		}
		path, err := m.page(dir, layout.PageSize)
		if err != nil {
			logrus.Debugf("paged move: %v", err)
			return m, nil
		}
		return m, m.showSlide(path)

	case gallery.Opt:
		return m, nil
	}
	return m, nil
}

func (m Model) step(dir direction) string {
	if dir == forward {
		return m.nav.Advance()
	}
	return m.nav.Retreat()
}

func (m Model) page(dir direction, size int) (string, error) {
	if dir == forward {
		return m.nav.AdvanceBy(size)
	}
	return m.nav.RetreatBy(size)
}

// isRepeat reports whether k arrived within the autorepeat window of the previous
// identical key. Every call refreshes the window, so a held key yields one edge.
func (m *Model) isRepeat(k string) bool {
	now := m.clock()
	repeat := k == m.lastKey && now.Sub(m.lastKeyAt) < keyRepeatWindow
	m.lastKey, m.lastKeyAt = k, now
	return repeat
}

// togglePause switches between the configured layout and Opt.
func (m *Model) togglePause() {
	if m.nav.Layout().Suspended() {
		if m.resume.Suspended() {
			m.resume = gallery.GridLayout(gallery.DefaultPageSize)
		}
		if err := m.nav.SetLayout(m.resume); err != nil {
			logrus.Debugf("resume layout: %v", err)
		}
		return
	}
	m.resume = m.nav.Layout()
	_ = m.nav.SetLayout(gallery.OptLayout())
}
