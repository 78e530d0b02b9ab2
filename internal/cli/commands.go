package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fleetdeck/fleetdeck/internal/dash"
	"github.com/fleetdeck/fleetdeck/internal/errors"
	"github.com/fleetdeck/fleetdeck/internal/logger"
	"github.com/fleetdeck/fleetdeck/internal/server"
	"github.com/fleetdeck/fleetdeck/internal/theme"
)

// dashCmd starts the terminal dashboard.
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the live fleet dashboard",
	Long: `Open the terminal dashboard over the configured backend.

The registry is fetched from api.base_url and refreshed periodically;
live telemetry arrives through the feed supervisor. With --demo a
built-in simulator stands in for both.

Examples:
  fleetdeck dash
  fleetdeck dash --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(demoFlag)
	},
}

// serveFlags
var serveAddrFlag string

// serveCmd exposes the read model as a JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fleet read model as JSON",
	Long: `Run the engine headless and expose its read model over HTTP:

  GET /healthz      feed state and last fetch error
  GET /api/fleet    the aggregated fleet snapshot
  GET /api/nodes    every node view record

Examples:
  fleetdeck serve
  fleetdeck serve --addr :8480 --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(serveAddrFlag, demoFlag)
	},
}

// themeCmd manages the persisted dashboard theme.
var themeCmd = &cobra.Command{
	Use:   "theme [list|set <name>]",
	Short: "Show or change the dashboard theme",
	Long: `Manage the dashboard theme. The selection is validated against the
recognized theme set and persisted; unknown names are rejected.

Examples:
  fleetdeck theme
  fleetdeck theme list
  fleetdeck theme set nord`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return themeCommand(args)
	},
}

// versionCmd prints build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fleetdeck %s (commit %s, built %s)\n", versionString, commitString, dateString)
	},
}

func init() {
	dashCmd.Flags().BoolVar(&demoFlag, "demo", false, "run against a built-in fleet simulator")
	serveCmd.Flags().BoolVar(&demoFlag, "demo", false, "run against a built-in fleet simulator")
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (overrides serve.addr)")
}

// dashCommand wires the engine and runs the TUI.
func dashCommand(demo bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'fleetdeck serve' for non-interactive consumers")
	}

	rt, err := buildRuntime(demo)
	if err != nil {
		return err
	}
	defer rt.stop()

	applyColorMode(rt.cfg.Output.Color)

	themes := theme.NewStore(themePath(rt), logger.Default())
	model := dash.NewModel(rt.engine, themes, rt.sitename)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// applyColorMode overrides terminal color detection when the config asks
// for a fixed mode. "auto" leaves lipgloss to detect the profile itself.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// serveCommand wires the engine and blocks serving HTTP until a signal.
func serveCommand(addr string, demo bool) error {
	rt, err := buildRuntime(demo)
	if err != nil {
		return err
	}
	defer rt.stop()

	if addr == "" {
		addr = rt.cfg.Serve.Addr
	}

	log := logger.NewEnvLogger("[serve]")
	srv := server.New(addr, rt.engine, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// themeCommand lists, sets, or interactively picks the theme.
func themeCommand(args []string) error {
	store := theme.NewStore(theme.DefaultPath(), logger.Default())

	if len(args) == 0 {
		return themePicker(store)
	}

	switch args[0] {
	case "list":
		current := store.Current()
		for _, id := range theme.All() {
			marker := "  "
			if id == current {
				marker = "* "
			}
			fmt.Println(marker + string(id))
		}
		return nil

	case "set":
		if len(args) < 2 {
			return errors.New(errors.ErrTheme,
				"No theme name given",
				"Usage: fleetdeck theme set <name>")
		}
		if err := store.Set(args[1]); err != nil {
			return err
		}
		fmt.Printf("theme set to %s\n", args[1])
		return nil

	default:
		return errors.New(errors.ErrTheme,
			fmt.Sprintf("Unknown subcommand '%s'", args[0]),
			"Use 'fleetdeck theme list' or 'fleetdeck theme set <name>'")
	}
}

// themePicker runs an interactive select form over the recognized set.
func themePicker(store *theme.Store) error {
	options := make([]huh.Option[string], 0, len(theme.All()))
	for _, id := range theme.All() {
		options = append(options, huh.NewOption(string(id), string(id)))
	}

	selected := string(store.Current())
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dashboard theme").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	return store.Set(selected)
}

// themePath resolves the theme persistence path, honoring the config
// override.
func themePath(rt *runtime) string {
	if rt.cfg.ThemeFile != "" {
		return rt.cfg.ThemeFile
	}
	return theme.DefaultPath()
}
