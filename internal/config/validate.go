package config

import (
	"fmt"
	"net/url"

	"github.com/fleetdeck/fleetdeck/internal/errors"
)

// Validate checks the config for values that would misbehave at runtime.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than supported version %d", cfg.Version, CurrentConfigVersion),
			"Update fleetdeck, or lower the version field")
	}

	if cfg.API.BaseURL != "" {
		u, err := url.Parse(cfg.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("api.base_url %q is not a valid URL", cfg.API.BaseURL),
				"Use a full URL like https://status.example.com")
		}
	}

	if cfg.API.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"api.timeout must not be negative",
			"Use a duration like 10s, or omit it for the default")
	}

	if cfg.API.RefreshInterval < 0 {
		return errors.New(errors.ErrConfig,
			"api.refresh_interval must not be negative",
			"Use a duration like 5m, or 0 to disable periodic refresh")
	}

	if cfg.Feed.StalenessWindow < 0 {
		return errors.New(errors.ErrConfig,
			"feed.staleness_window must not be negative",
			"Use a duration like 15s, or omit it for the default")
	}

	switch cfg.Output.Color {
	case "", "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.color %q is not recognized", cfg.Output.Color),
			"Use auto, always, or never")
	}

	switch cfg.Output.Verbosity {
	case "", "quiet", "normal", "verbose":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.verbosity %q is not recognized", cfg.Output.Verbosity),
			"Use quiet, normal, or verbose")
	}

	return nil
}
