package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/greengrid/internal/session"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: one-line selector, no sparklines
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: selector list without sparklines
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: selector list with sparklines
	LayoutStandard
	// LayoutWide is for terminals 160+ columns
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// DefaultInterval is the refresh interval when none is configured.
const DefaultInterval = 2 * time.Second

// Options configures a dashboard Model.
type Options struct {
	// Title is shown in the header.
	Title string
	// Interval is the time between timer ticks.
	Interval time.Duration
	// Substation is the initially selected id. Empty selects the first one.
	Substation string
	// SampleOnInteraction draws a reading on every selection change.
	SampleOnInteraction bool
	// Now overrides the clock used for key-driven readings.
	Now func() time.Time
}

// Model is the Bubble Tea model for the GreenGrid terminal dashboard.
type Model struct {
	session *session.Session
	ids     []string

	title               string
	interval            time.Duration
	sampleOnInteraction bool
	now                 func() time.Time

	selected   int
	tab        Tab
	paused     bool
	showHelp   bool
	quitting   bool
	width      int
	height     int
	lastUpdate time.Time

	help help.Model

	// Alert feed viewport
	alertViewport viewport.Model
	viewportReady bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// NewModel creates a dashboard over sess.
func NewModel(sess *session.Session, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Title == "" {
		opts.Title = "GreenGrid"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		session:             sess,
		ids:                 sess.Registry().IDs(),
		title:               opts.Title,
		interval:            opts.Interval,
		sampleOnInteraction: opts.SampleOnInteraction,
		now:                 opts.Now,
		help:                help.New(),
	}

	if idx := sess.Registry().Index(opts.Substation); idx >= 0 {
		m.selected = idx
	}
	return m
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			m.updateAlertViewportContent()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header, tab bar and footer
		headerHeight := 4
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.alertViewport = viewport.New(m.width, viewportHeight)
			m.alertViewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.alertViewport.Width = m.width
			m.alertViewport.Height = viewportHeight
		}
		m.updateAlertViewportContent()

	case tickMsg:
		if !m.paused {
			m.refresh(time.Time(msg))
			m.updateAlertViewportContent()
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh handles one refresh event.
func (m *Model) refresh(now time.Time) session.TickResult {
	res := m.session.Tick(now)
	m.lastUpdate = now
	return res
}

// selectIndex moves the selection, clamped to the registry. A change of
// selection counts as a refresh event when sampleOnInteraction is set.
func (m *Model) selectIndex(idx int) {
	if len(m.ids) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.ids)-1 {
		idx = len(m.ids) - 1
	}
	if idx == m.selected {
		return
	}
	m.selected = idx
	if m.sampleOnInteraction {
		m.refresh(m.now())
	}
}

// Selected returns the id of the selected substation.
func (m Model) Selected() string {
	if m.selected < 0 || m.selected >= len(m.ids) {
		return ""
	}
	return m.ids[m.selected]
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab {
	return m.tab
}

// Paused reports whether timer ticks are ignored.
func (m Model) Paused() bool {
	return m.paused
}

// Snapshot returns the view of the selected substation.
func (m Model) Snapshot() session.Snapshot {
	return m.session.Snapshot(m.Selected())
}

// Layout returns the layout mode for the current terminal width.
func (m Model) Layout() LayoutMode {
	switch {
	case m.width == 0:
		return LayoutStandard
	case m.width < BreakpointCompact:
		return LayoutMinimal
	case m.width < BreakpointStandard:
		return LayoutCompact
	case m.width < BreakpointWide:
		return LayoutStandard
	default:
		return LayoutWide
	}
}

// updateAlertViewportContent refreshes the alert feed and keeps the newest
// alert in view.
func (m *Model) updateAlertViewportContent() {
	if !m.viewportReady {
		return
	}
	atBottom := m.alertViewport.AtBottom()
	m.alertViewport.SetContent(strings.Join(m.alertLines(m.Snapshot()), "\n"))
	if atBottom {
		m.alertViewport.GotoBottom()
	}
}
