package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .fleetdeck.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	API     APIConfig    `yaml:"api" mapstructure:"api"`
	Feed    FeedConfig   `yaml:"feed" mapstructure:"feed"`
	Serve   ServeConfig  `yaml:"serve" mapstructure:"serve"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`

	// ThemeFile overrides where the theme selection is persisted.
	ThemeFile string `yaml:"theme_file" mapstructure:"theme_file"`
}

// APIConfig points at the dashboard backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://status.example.com".
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each registry/settings fetch.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RefreshInterval is how often the full node registry is re-fetched.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// SitenameFallback is displayed when public settings are unavailable.
	SitenameFallback string `yaml:"sitename_fallback" mapstructure:"sitename_fallback"`
}

// FeedConfig tunes how live telemetry is interpreted.
type FeedConfig struct {
	// StalenessWindow is how long a node may stay silent before the
	// periodic sweep presumes it offline.
	StalenessWindow time.Duration `yaml:"staleness_window" mapstructure:"staleness_window"`
}

// ServeConfig configures the read-only JSON API.
type ServeConfig struct {
	// Addr is the listen address for 'fleetdeck serve'.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Verbosity level: "quiet", "normal", or "verbose".
	Verbosity string `yaml:"verbosity" mapstructure:"verbosity"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			Timeout:          10 * time.Second,
			RefreshInterval:  5 * time.Minute,
			SitenameFallback: "fleetdeck",
		},
		Feed: FeedConfig{
			StalenessWindow: 15 * time.Second,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8480",
		},
		Output: OutputConfig{
			Color:     "auto",
			Verbosity: "normal",
		},
	}
}
