// Package theme manages the dashboard's visual theme: a closed set of
// recognized theme IDs, a durable key-value store for the selection, and
// an observable Store handed to consumers by explicit dependency
// injection. There is no ambient provider; anything that needs the
// current theme holds a *Store.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fleetdeck/fleetdeck/internal/errors"
)

// ID identifies one of the recognized themes.
type ID string

// The closed set of recognized themes. Selection is a validated parse:
// anything outside this set is ignored in favor of Default.
const (
	Default    ID = "default"
	Catppuccin ID = "catppuccin"
	Nord       ID = "nord"
	Dracula    ID = "dracula"
	Gruvbox    ID = "gruvbox"
	Solarized  ID = "solarized"
	TokyoNight ID = "tokyo-night"
	Mono       ID = "mono"
)

// All lists every recognized theme ID in display order.
func All() []ID {
	return []ID{Default, Catppuccin, Nord, Dracula, Gruvbox, Solarized, TokyoNight, Mono}
}

// Parse validates raw against the recognized set.
func Parse(raw string) (ID, error) {
	for _, id := range All() {
		if string(id) == raw {
			return id, nil
		}
	}
	return Default, errors.New(errors.ErrTheme,
		"Unknown theme '"+raw+"'",
		"Run 'fleetdeck theme list' to see recognized themes")
}

// Palette holds the lipgloss colors a theme contributes to the TUI.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	Accent   lipgloss.Color
	Healthy  lipgloss.Color
	Warning  lipgloss.Color
	Critical lipgloss.Color
}

var palettes = map[ID]Palette{
	Default: {
		Background: "#0A0A0F", Surface: "#12121A", Border: "#2A2A4A",
		TextPrimary: "#FFFFFF", TextSecondary: "#B4B4D0", TextMuted: "#6B6B8D",
		Accent: "#FF2E97", Healthy: "#39FF14", Warning: "#FFAA00", Critical: "#FF0055",
	},
	Catppuccin: {
		Background: "#1E1E2E", Surface: "#313244", Border: "#45475A",
		TextPrimary: "#CDD6F4", TextSecondary: "#BAC2DE", TextMuted: "#6C7086",
		Accent: "#CBA6F7", Healthy: "#A6E3A1", Warning: "#F9E2AF", Critical: "#F38BA8",
	},
	Nord: {
		Background: "#2E3440", Surface: "#3B4252", Border: "#4C566A",
		TextPrimary: "#ECEFF4", TextSecondary: "#D8DEE9", TextMuted: "#616E88",
		Accent: "#88C0D0", Healthy: "#A3BE8C", Warning: "#EBCB8B", Critical: "#BF616A",
	},
	Dracula: {
		Background: "#282A36", Surface: "#343746", Border: "#44475A",
		TextPrimary: "#F8F8F2", TextSecondary: "#E6E6E6", TextMuted: "#6272A4",
		Accent: "#BD93F9", Healthy: "#50FA7B", Warning: "#F1FA8C", Critical: "#FF5555",
	},
	Gruvbox: {
		Background: "#282828", Surface: "#3C3836", Border: "#504945",
		TextPrimary: "#EBDBB2", TextSecondary: "#D5C4A1", TextMuted: "#928374",
		Accent: "#D3869B", Healthy: "#B8BB26", Warning: "#FABD2F", Critical: "#FB4934",
	},
	Solarized: {
		Background: "#002B36", Surface: "#073642", Border: "#586E75",
		TextPrimary: "#FDF6E3", TextSecondary: "#EEE8D5", TextMuted: "#657B83",
		Accent: "#268BD2", Healthy: "#859900", Warning: "#B58900", Critical: "#DC322F",
	},
	TokyoNight: {
		Background: "#1A1B26", Surface: "#24283B", Border: "#414868",
		TextPrimary: "#C0CAF5", TextSecondary: "#A9B1D6", TextMuted: "#565F89",
		Accent: "#BB9AF7", Healthy: "#9ECE6A", Warning: "#E0AF68", Critical: "#F7768E",
	},
	Mono: {
		Background: "#000000", Surface: "#111111", Border: "#333333",
		TextPrimary: "#FFFFFF", TextSecondary: "#CCCCCC", TextMuted: "#777777",
		Accent: "#FFFFFF", Healthy: "#FFFFFF", Warning: "#AAAAAA", Critical: "#FFFFFF",
	},
}

// PaletteFor returns the palette for id, falling back to Default.
func PaletteFor(id ID) Palette {
	if p, ok := palettes[id]; ok {
		return p
	}
	return palettes[Default]
}
