package dash

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fleetdeck/fleetdeck/internal/metrics"
	"github.com/fleetdeck/fleetdeck/internal/theme"
)

// Styles holds the lipgloss styles for one theme palette. Rebuilt
// whenever the theme changes.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Footer   lipgloss.Style
	Banner   lipgloss.Style
	Row      lipgloss.Style
	RowSel   lipgloss.Style
	Name     lipgloss.Style
	Muted    lipgloss.Style
	Online   lipgloss.Style
	Offline  lipgloss.Style
	Healthy  lipgloss.Style
	Warning  lipgloss.Style
	Critical lipgloss.Style
}

// NewStyles builds the style set from a theme palette.
func NewStyles(p theme.Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(p.TextPrimary).
			Background(p.Surface).
			Bold(true).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Foreground(p.Critical).
			Bold(true).
			Padding(0, 1),
		Row: lipgloss.NewStyle().
			Foreground(p.TextSecondary),
		RowSel: lipgloss.NewStyle().
			Foreground(p.TextPrimary).
			Background(p.Surface).
			Bold(true),
		Name: lipgloss.NewStyle().
			Foreground(p.TextPrimary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		Online: lipgloss.NewStyle().
			Foreground(p.Healthy),
		Offline: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		Healthy: lipgloss.NewStyle().
			Foreground(p.Healthy),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),
		Critical: lipgloss.NewStyle().
			Foreground(p.Critical),
	}
}

// severityStyle maps a classification to its style.
func (s Styles) severityStyle(sev metrics.Severity) lipgloss.Style {
	switch sev {
	case metrics.SeverityCritical:
		return s.Critical
	case metrics.SeverityWarning:
		return s.Warning
	default:
		return s.Healthy
	}
}
