package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Tab identifies the visible dashboard tab.
type Tab int

const (
	TabCharts Tab = iota
	TabAlerts
)

// String returns the tab label shown in the tab bar.
func (t Tab) String() string {
	switch t {
	case TabCharts:
		return "Live Charts"
	case TabAlerts:
		return "Alerts"
	default:
		return "Live Charts"
	}
}

// Next cycles to the next tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % 2)
}

// keyMap holds every binding the dashboard reacts to. It satisfies
// help.KeyMap so the footer and the help overlay stay in sync.
type keyMap struct {
	Quit        key.Binding
	Refresh     key.Binding
	Pause       key.Binding
	NextTab     key.Binding
	ChartsTab   key.Binding
	AlertsTab   key.Binding
	SelectPrev  key.Binding
	SelectNext  key.Binding
	SelectFirst key.Binding
	SelectLast  key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Close       key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "new reading"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch tab"),
	),
	ChartsTab: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "live charts"),
	),
	AlertsTab: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "alerts"),
	),
	SelectPrev: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous substation"),
	),
	SelectNext: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next substation"),
	),
	SelectFirst: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "first substation"),
	),
	SelectLast: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "last substation"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll alerts up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll alerts down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Pause, k.NextTab, k.SelectNext, k.Help}
}

// FullHelp is shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SelectPrev, k.SelectNext, k.SelectFirst, k.SelectLast},
		{k.NextTab, k.ChartsTab, k.AlertsTab, k.ScrollUp, k.ScrollDown},
		{k.Refresh, k.Pause, k.Help, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, keys.Refresh):
		m.refresh(m.now())
		return true, nil

	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused
		return true, nil

	case key.Matches(msg, keys.NextTab):
		m.tab = m.tab.Next()
		return true, nil

	case key.Matches(msg, keys.ChartsTab):
		m.tab = TabCharts
		return true, nil

	case key.Matches(msg, keys.AlertsTab):
		m.tab = TabAlerts
		return true, nil

	case key.Matches(msg, keys.SelectPrev):
		m.selectIndex(m.selected - 1)
		return true, nil

	case key.Matches(msg, keys.SelectNext):
		m.selectIndex(m.selected + 1)
		return true, nil

	case key.Matches(msg, keys.SelectFirst):
		m.selectIndex(0)
		return true, nil

	case key.Matches(msg, keys.SelectLast):
		m.selectIndex(len(m.ids) - 1)
		return true, nil

	case key.Matches(msg, keys.ScrollUp, keys.ScrollDown):
		if m.viewportReady {
			var cmd tea.Cmd
			m.alertViewport, cmd = m.alertViewport.Update(msg)
			return true, cmd
		}
		return true, nil
	}

	return false, nil
}
