// Package main is the entry point for the hyprkitd desktop daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/hyprkit/internal/battery"
	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/fullscreen"
	"github.com/jmylchreest/hyprkit/internal/gamemode"
	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/sysinfo"
	"github.com/jmylchreest/hyprkit/internal/theme"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/hyprkit/config.toml)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("hyprkitd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, logger); err != nil {
		logger.Error("hyprkitd failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("hyprkitd stopped")
}

// run starts the enabled watchers and restarts them whenever the config
// file changes.
func run(ctx context.Context, configPath string, logger *slog.Logger) error {
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("starting hyprkitd", "version", version, "config", configPath)

	// Only the newest pending config matters.
	reloads := make(chan *config.Config, 1)
	watcher, err := config.NewWatcher(configPath, func(c *config.Config) {
		select {
		case <-reloads:
		default:
		}
		reloads <- c
	}, logger)
	if err != nil {
		logger.Warn("config hot-reload disabled", "error", err)
	} else {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func(cfg *config.Config) {
			done <- runWatchers(runCtx, cfg, logger)
		}(cfg)

		select {
		case <-ctx.Done():
			cancel()
			return <-done
		case next := <-reloads:
			logger.Info("restarting watchers with new config")
			cancel()
			if err := <-done; err != nil {
				logger.Warn("watchers exited with error", "error", err)
			}
			cfg = next
		case err := <-done:
			cancel()
			if err != nil {
				return err
			}
			// Nothing left to watch; wait for a config change.
			select {
			case <-ctx.Done():
				return nil
			case cfg = <-reloads:
			}
		}
	}
}

// runWatchers runs every watcher enabled in cfg until ctx is cancelled.
// A watcher whose source is unavailable is skipped rather than failing the
// daemon.
func runWatchers(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	runner := proc.NewExec(logger)
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Daemon.Battery {
		reader := battery.NewReader(cfg.Battery.Device)
		readings, err := battery.Watch(ctx, reader, logger)
		if err != nil {
			logger.Warn("battery watcher disabled", "error", err)
		} else {
			sink := notify.New(runner, logger)
			if c, ok := sink.(io.Closer); ok {
				defer func() { _ = c.Close() }()
			}
			alerter := battery.NewAlerter(cfg.Battery.Low, cfg.Battery.Critical)
			g.Go(func() error {
				battery.Notifier(ctx, readings, alerter, sink, cfg.IconDir(), logger)
				return nil
			})
		}
	}

	if cfg.Daemon.Fullscreen {
		states, err := watchFullscreen(ctx, runner, logger)
		if err != nil {
			logger.Warn("fullscreen watcher disabled", "error", err)
		} else {
			c := &fullscreen.Controller{
				Runner:     runner,
				GameMode:   state.Marker(cfg.RuntimeFile(gamemode.MarkerFile)),
				WaybarArgs: theme.WaybarArgs(cfg.ThemeDir()),
				Logger:     logger,
			}
			g.Go(func() error {
				c.Run(ctx, states)
				return nil
			})
		}
	}

	if cfg.Daemon.Sysinfo {
		c := sysinfo.NewCollector(cfg.RuntimeFile(sysinfo.CPUPrevFile), cfg.Sysinfo.BarWidth)
		w := sysinfo.NewWidget(runner, c, filepath.Join(cfg.ThemeDir(), "Swaync", "Config.json"), logger)
		g.Go(func() error {
			return w.Run(ctx, cfg.Sysinfo.Interval.Duration())
		})
	}

	return g.Wait()
}

func watchFullscreen(ctx context.Context, runner proc.Runner, logger *slog.Logger) (<-chan bool, error) {
	path, err := hyprland.SocketPath()
	if err != nil {
		return nil, err
	}
	events, err := hyprland.Subscribe(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	return fullscreen.Watch(ctx, events, hyprland.NewClient(runner), logger), nil
}
