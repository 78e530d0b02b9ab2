// Package dash is the terminal dashboard: a Bubble Tea model that
// consumes the engine's immutable read model and renders fleet health.
// It never mutates registry state.
package dash

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fleetdeck/fleetdeck/internal/fleet"
	"github.com/fleetdeck/fleetdeck/internal/metrics"
	"github.com/fleetdeck/fleetdeck/internal/theme"
)

// SortOrder controls node row ordering.
type SortOrder int

const (
	// SortByDefault shows online nodes first, then first-seen order.
	SortByDefault SortOrder = iota
	// SortByName sorts alphabetically by display name.
	SortByName
	// SortByCPU sorts descending by CPU usage.
	SortByCPU
	sortOrderCount
)

// String returns a short label for the footer.
func (s SortOrder) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByCPU:
		return "cpu"
	default:
		return "default"
	}
}

// ReadModel is what the dashboard needs from the engine.
type ReadModel interface {
	Records() []fleet.NodeViewRecord
	Snapshot() fleet.FleetSnapshot
	ConnState() fleet.ConnState
	LastFetchError() error
	Refresh()
	Subscribe() (<-chan struct{}, func())
}

// Model is the Bubble Tea model for the fleet dashboard.
type Model struct {
	engine ReadModel
	themes *theme.Store
	styles Styles

	sitename string

	records    []fleet.NodeViewRecord
	snap       fleet.FleetSnapshot
	conn       fleet.ConnState
	fetchErr   error
	lastUpdate time.Time

	selected  int
	sortOrder SortOrder
	showHelp  bool
	quitting  bool

	// spinner animates the empty state before the first registry fetch
	// lands.
	spinner spinner.Model

	width  int
	height int

	// history feeds the detail sparkline, one CPU sample per publish.
	history *cpuHistory

	// changes delivers engine publish notifications; unsub stops them.
	changes <-chan struct{}
	unsub   func()
}

// stateChangedMsg signals the engine published a new snapshot.
type stateChangedMsg struct{}

// changesClosedMsg signals the engine was torn down.
type changesClosedMsg struct{}

// tickMsg drives the "updated Ns ago" header refresh.
type tickMsg time.Time

// NewModel creates the dashboard over an engine read model and a theme
// store. The sitename comes from public settings (or its fallback).
func NewModel(engine ReadModel, themes *theme.Store, sitename string) Model {
	ch, unsub := engine.Subscribe()
	styles := NewStyles(themes.Palette())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Title

	m := Model{
		engine:   engine,
		themes:   themes,
		styles:   styles,
		sitename: sitename,
		history:  newCPUHistory(defaultHistorySize),
		spinner:  sp,
		changes:  ch,
		unsub:    unsub,
	}
	m.pull()
	return m
}

// Init starts the change listener, the header tick, and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.tickCmd(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case stateChangedMsg:
		m.pull()
		m.lastUpdate = time.Now()
		return m, m.waitForChange()

	case changesClosedMsg:
		// Engine torn down; keep rendering last-known data.

	case tickMsg:
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Close unsubscribes from engine notifications. No callback fires after
// it returns.
func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// handleKey processes one key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.records)-1 {
			m.selected++
		}

	case "s":
		m.sortOrder = (m.sortOrder + 1) % sortOrderCount
		m.sortRecords()

	case "t":
		m.cycleTheme()

	case "r":
		m.engine.Refresh()

	case "h", "?":
		m.showHelp = !m.showHelp
	}

	return m, nil
}

// pull copies the current read model state and re-sorts.
func (m *Model) pull() {
	m.records = m.engine.Records()
	m.snap = m.engine.Snapshot()
	m.conn = m.engine.ConnState()
	m.fetchErr = m.engine.LastFetchError()

	alive := make(map[string]bool, len(m.records))
	for _, rec := range m.records {
		alive[rec.Node.UUID] = true
		if rec.Online() && rec.Stats != nil {
			m.history.Push(rec.Node.UUID, rec.Stats.CPU)
		}
	}
	m.history.Prune(alive)

	m.sortRecords()
	if m.selected >= len(m.records) {
		m.selected = len(m.records) - 1
	}
	if m.selected < 0 && len(m.records) > 0 {
		m.selected = 0
	}
}

// sortRecords orders the local copy; the registry itself stays in
// first-seen order.
func (m *Model) sortRecords() {
	switch m.sortOrder {
	case SortByName:
		sort.SliceStable(m.records, func(i, j int) bool {
			return m.records[i].Node.Name < m.records[j].Node.Name
		})

	case SortByCPU:
		sort.SliceStable(m.records, func(i, j int) bool {
			return cpuOf(m.records[i]) > cpuOf(m.records[j])
		})

	default:
		// Online first, preserving first-seen order within each group.
		sort.SliceStable(m.records, func(i, j int) bool {
			return m.records[i].Online() && !m.records[j].Online()
		})
	}
}

func cpuOf(rec fleet.NodeViewRecord) float64 {
	if rec.Stats == nil {
		return -1
	}
	return rec.Stats.CPU
}

// cycleTheme advances to the next theme in the recognized set and
// rebuilds the styles.
func (m *Model) cycleTheme() {
	all := theme.All()
	cur := m.themes.Current()
	for i, id := range all {
		if id == cur {
			next := all[(i+1)%len(all)]
			// Set persists and notifies other subscribers too.
			if err := m.themes.Set(string(next)); err == nil {
				m.styles = NewStyles(m.themes.Palette())
				m.spinner.Style = m.styles.Title
			}
			return
		}
	}
}

// waitForChange blocks on the engine's notification channel.
func (m Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return changesClosedMsg{}
		}
		return stateChangedMsg{}
	}
}

// tickCmd refreshes the header once a second.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// SecondsSinceUpdate returns how many seconds passed since the last
// engine publish reached the view.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// SelectedRecord returns the currently selected record, if any.
func (m Model) SelectedRecord() (fleet.NodeViewRecord, bool) {
	if m.selected >= 0 && m.selected < len(m.records) {
		return m.records[m.selected], true
	}
	return fleet.NodeViewRecord{}, false
}

// severityFor classifies one record's resource for display.
func severityFor(rec fleet.NodeViewRecord, res metrics.Resource) metrics.Severity {
	if rec.Stats == nil {
		return metrics.SeverityNormal
	}
	switch res {
	case metrics.ResourceCPU:
		return metrics.Classify(res, rec.Stats.CPU)
	case metrics.ResourceRAM:
		return metrics.Classify(res, metrics.UsagePercent(rec.Stats.MemUsed, rec.Node.Hardware.MemTotal))
	case metrics.ResourceDisk:
		return metrics.Classify(res, metrics.UsagePercent(rec.Stats.DiskUsed, rec.Node.Hardware.DiskTotal))
	}
	return metrics.SeverityNormal
}
