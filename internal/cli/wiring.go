package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdeck/fleetdeck/internal/api"
	"github.com/fleetdeck/fleetdeck/internal/config"
	"github.com/fleetdeck/fleetdeck/internal/errors"
	"github.com/fleetdeck/fleetdeck/internal/feed"
	"github.com/fleetdeck/fleetdeck/internal/fleet"
	"github.com/fleetdeck/fleetdeck/internal/logger"
)

// runtime bundles everything a running dashboard or server needs.
type runtime struct {
	cfg      *config.Config
	engine   *fleet.Engine
	sitename string
	stop     func()
}

// buildRuntime loads config and starts the engine, either against the
// configured backend or against the built-in simulator in demo mode.
func buildRuntime(demo bool) (*runtime, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	log := logger.NewEnvLogger("[fleetdeck]")
	ctx, cancel := context.WithCancel(context.Background())

	if demo {
		nodes := demoNodes()
		sim := feed.NewSimulator(nodes, 2*time.Second)
		go sim.Run(ctx)

		engine := fleet.NewEngine(sim.Supervisor(), staticSource(nodes), fleet.EngineOptions{
			StalenessWindow: cfg.Feed.StalenessWindow,
			Logger:          log,
		})
		engine.Start(ctx)

		return &runtime{
			cfg:      cfg,
			engine:   engine,
			sitename: cfg.API.SitenameFallback + " (demo)",
			stop: func() {
				engine.Close()
				cancel()
			},
		}, nil
	}

	if cfg.API.BaseURL == "" {
		cancel()
		return nil, errors.New(errors.ErrConfig,
			"No backend configured",
			"Set api.base_url in "+config.ConfigFileName+", or try --demo")
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)

	// Settings are fetched once at startup; a failure falls back to the
	// configured sitename and is logged, never fatal.
	sitename := cfg.API.SitenameFallback
	settingsCtx, settingsCancel := context.WithTimeout(ctx, cfg.API.Timeout)
	if s, err := client.FetchSettings(settingsCtx); err == nil && s.Sitename != "" {
		sitename = s.Sitename
	}
	settingsCancel()

	// The live-feed transport is pluggable and external; without one the
	// registry still loads and every node renders with last-known state.
	supervisor := feed.NewReplay()

	engine := fleet.NewEngine(supervisor, client, fleet.EngineOptions{
		StalenessWindow: cfg.Feed.StalenessWindow,
		RefreshInterval: cfg.API.RefreshInterval,
		Logger:          log,
	})
	engine.Start(ctx)

	return &runtime{
		cfg:      cfg,
		engine:   engine,
		sitename: sitename,
		stop: func() {
			engine.Close()
			supervisor.Close()
			cancel()
		},
	}, nil
}

// staticSource serves a fixed node set as a fleet.NodeSource.
type staticSource []fleet.Node

func (s staticSource) FetchNodes(ctx context.Context) ([]fleet.Node, error) {
	return s, nil
}

// demoNodes builds a small plausible fleet for demo mode.
func demoNodes() []fleet.Node {
	regions := []string{"🇩🇪 Frankfurt", "🇺🇸 Dallas", "🇯🇵 Tokyo", "🇸🇬 Singapore", "🇬🇧 London", "🇹🇼 Taipei"}
	groups := []string{"edge", "edge", "core", "core", "storage", "edge"}
	now := time.Now()

	nodes := make([]fleet.Node, 0, len(regions))
	for i, region := range regions {
		nodes = append(nodes, fleet.Node{
			UUID:   uuid.NewString(),
			Name:   fmt.Sprintf("node-%02d", i+1),
			Region: region,
			Group:  groups[i],
			Tags:   "demo,virtual",
			Weight: i,
			Hardware: fleet.Hardware{
				CPUModel:       "EPYC 7543",
				CPUCores:       8,
				Arch:           "x86_64",
				MemTotal:       16 << 30,
				SwapTotal:      4 << 30,
				DiskTotal:      200 << 30,
				OS:             "debian 12",
				Virtualization: "kvm",
			},
			Price:     fleet.Price{Amount: float64(i) * 4.5, Currency: "USD", CycleDays: 30},
			CreatedAt: now.AddDate(0, -i, 0),
			UpdatedAt: now,
		})
	}
	return nodes
}
