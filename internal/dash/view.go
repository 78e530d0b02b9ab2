package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleetdeck/fleetdeck/internal/fleet"
	"github.com/fleetdeck/fleetdeck/internal/metrics"
	"github.com/fleetdeck/fleetdeck/internal/util"
)

// render assembles the complete dashboard view.
func (m Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.fetchErr != nil {
		// Non-blocking banner: stale data stays on screen below it.
		b.WriteString(m.styles.Banner.Render("registry fetch failed, showing last-known data"))
		b.WriteString("\n")
	}

	b.WriteString(m.renderSummary())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())

	if detail, ok := m.renderDetail(); ok {
		b.WriteString("\n")
		b.WriteString(detail)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader shows the sitename, connection state, and update age.
func (m Model) renderHeader() string {
	title := m.styles.Title.Render(m.sitename)

	var connStyle lipgloss.Style
	if m.conn == fleet.ConnConnected {
		connStyle = m.styles.Online
	} else {
		connStyle = m.styles.Offline
	}
	conn := connStyle.Render("● " + m.conn.String())

	age := m.SecondsSinceUpdate()
	var updated string
	switch age {
	case 0:
		updated = "just now"
	case 1:
		updated = "1s ago"
	default:
		updated = fmt.Sprintf("%ds ago", age)
	}

	return m.styles.Header.Render(fmt.Sprintf("%s  %s  updated %s", title, conn, updated))
}

// renderSummary shows the fleet-wide counters.
func (m Model) renderSummary() string {
	groups := util.JoinOrDefault(m.snap.Groups, "-")
	return m.styles.Row.Render(fmt.Sprintf(
		"%d %s  %s online  %s offline  groups: %s  ↑ %s ↓ %s  Σ↑ %s Σ↓ %s",
		m.snap.Total,
		util.Pluralize(m.snap.Total, "node", "nodes"),
		m.styles.Online.Render(fmt.Sprintf("%d", m.snap.Online)),
		m.styles.Offline.Render(fmt.Sprintf("%d", m.snap.Offline)),
		groups,
		metrics.FormatSpeed(m.snap.NetUpSpeed),
		metrics.FormatSpeed(m.snap.NetDownSpeed),
		metrics.FormatBytes(m.snap.NetUpTransfer),
		metrics.FormatBytes(m.snap.NetDownTransfer),
	))
}

// renderRows renders one line per node.
func (m Model) renderRows() string {
	if len(m.records) == 0 {
		return "  " + m.spinner.View() + m.styles.Muted.Render(" waiting for the node registry")
	}

	var b strings.Builder
	for i, rec := range m.records {
		line := m.renderRow(rec)
		if i == m.selected {
			line = m.styles.RowSel.Render(line)
		} else {
			line = m.styles.Row.Render(line)
		}
		b.WriteString(line)
		if i < len(m.records)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRow formats a single node line.
func (m Model) renderRow(rec fleet.NodeViewRecord) string {
	name := util.TruncateWithEllipsis(rec.Node.Name, 18)
	region := util.TruncateWithEllipsis(metrics.NormalizeRegion(rec.Node.Region), 12)

	var dot string
	if rec.Online() {
		dot = m.styles.Online.Render("●")
	} else {
		dot = m.styles.Offline.Render("○")
	}

	if rec.Stats == nil {
		return fmt.Sprintf(" %s %-18s %-12s %s", dot, name, region,
			m.styles.Muted.Render("no telemetry"))
	}

	s := rec.Stats
	cpu := m.gauge(metrics.ResourceCPU, rec, s.CPU)
	ram := m.gauge(metrics.ResourceRAM, rec,
		metrics.UsagePercent(s.MemUsed, rec.Node.Hardware.MemTotal))
	disk := m.gauge(metrics.ResourceDisk, rec,
		metrics.UsagePercent(s.DiskUsed, rec.Node.Hardware.DiskTotal))

	return fmt.Sprintf(" %s %-18s %-12s cpu %s  ram %s  disk %s  ↑ %s ↓ %s  up %s",
		dot, name, region, cpu, ram, disk,
		metrics.FormatSpeed(s.Network.UpSpeed),
		metrics.FormatSpeed(s.Network.DownSpeed),
		metrics.FormatUptime(s.Uptime),
	)
}

// gauge renders a severity-colored percentage.
func (m Model) gauge(res metrics.Resource, rec fleet.NodeViewRecord, pct float64) string {
	sev := severityFor(rec, res)
	return m.styles.severityStyle(sev).Render(fmt.Sprintf("%5s", metrics.FormatPercent(pct)))
}

// renderDetail shows static attributes for the selected node when the
// terminal is tall enough.
func (m Model) renderDetail() (string, bool) {
	if m.height > 0 && m.height < 24 {
		return "", false
	}
	rec, ok := m.SelectedRecord()
	if !ok {
		return "", false
	}

	hw := rec.Node.Hardware
	price := "Free"
	if !rec.Node.Price.Free() {
		price = fmt.Sprintf("%.2f %s / %dd",
			rec.Node.Price.Amount, rec.Node.Price.Currency, rec.Node.Price.CycleDays)
	}

	lines := []string{
		m.styles.Name.Render(rec.Node.Name),
		fmt.Sprintf("  %s, %d cores, %s", hw.CPUModel, hw.CPUCores, hw.Arch),
		fmt.Sprintf("  %s  mem %s  swap %s  disk %s",
			hw.OS,
			metrics.FormatBytes(hw.MemTotal),
			metrics.FormatBytes(hw.SwapTotal),
			metrics.FormatBytes(hw.DiskTotal)),
		fmt.Sprintf("  group: %s  tags: %s  price: %s",
			util.Defaulted(rec.Node.Group, "-"),
			util.JoinOrDefault(rec.Node.TagList(), "-"),
			price),
	}

	if s := rec.Stats; s != nil {
		lines = append(lines, fmt.Sprintf(
			"  load %.2f / %.2f / %.2f  procs %d  tcp %d  udp %d  Σ↑ %s Σ↓ %s",
			s.Load1, s.Load5, s.Load15,
			s.Processes, s.TCPConns, s.UDPConns,
			metrics.FormatBytes(s.Network.UpTransfer),
			metrics.FormatBytes(s.Network.DownTransfer)))
	}

	if trace := m.history.Values(rec.Node.UUID); len(trace) > 1 {
		lines = append(lines, "  cpu "+m.styles.renderSparkline(trace, 40))
	}

	return m.styles.Row.Render(strings.Join(lines, "\n")), true
}

// renderFooter shows key hints or the expanded help.
func (m Model) renderFooter() string {
	if m.showHelp {
		return m.styles.Footer.Render(
			"↑/↓ select   s sort (" + m.sortOrder.String() + ")   t theme   r refresh   h help   q quit")
	}
	return m.styles.Footer.Render("h help   q quit")
}
