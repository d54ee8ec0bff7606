// Package gamemode strips the desktop down for games and restores it.
package gamemode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/theme"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

const icon = "applications-games"

// MarkerFile is the runtime file whose existence means game mode is on.
// The fullscreen watcher leaves the bar alone while it exists.
const MarkerFile = "game-mode-on"

// Keywords applied in one batch when game mode is enabled.
var keywords = []string{
	"keyword animations:enabled 0",
	"keyword decoration:blur:passes 0",
	"keyword general:gaps_in 0",
	"keyword general:gaps_out 0",
	"keyword general:border_size 1",
	"keyword decoration:rounding 0",
}

const opacityRule = "opacity 1 override 1 override 1 override, ^(.*)$"

// Wallpaper is the part of the wallpaper manager game mode needs.
type Wallpaper interface {
	Kill(ctx context.Context)
	Restore(ctx context.Context) error
}

// Activator re-applies a theme.
type Activator interface {
	Activate(ctx context.Context, name string) error
}

// Manager toggles game mode. The marker file is the only state.
type Manager struct {
	runner    proc.Runner
	hypr      *hyprland.Client
	sink      notify.Sink
	marker    state.Marker
	wallpaper Wallpaper
	themes    Activator
	themesDir string
	logger    *slog.Logger
}

// New creates a Manager. themesDir holds ThemeLoader.conf, which names
// the theme restored on disable.
func New(runner proc.Runner, sink notify.Sink, marker state.Marker, wp Wallpaper, themes Activator, themesDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runner:    runner,
		hypr:      hyprland.NewClient(runner),
		sink:      sink,
		marker:    marker,
		wallpaper: wp,
		themes:    themes,
		themesDir: themesDir,
		logger:    logger,
	}
}

// Active reports whether game mode is on.
func (m *Manager) Active() bool {
	return m.marker.Exists()
}

// Toggle flips game mode and returns the new state.
func (m *Manager) Toggle(ctx context.Context) (bool, error) {
	if m.Active() {
		return false, m.Disable(ctx)
	}
	return true, m.Enable(ctx)
}

// Enable turns off animations, blur, gaps and transparency and stops the
// wallpaper daemon, bar and notification center.
func (m *Manager) Enable(ctx context.Context) error {
	m.logger.Info("enabling game mode")
	if err := m.marker.Set(); err != nil {
		return err
	}

	if err := m.hypr.Batch(ctx, keywords...); err != nil {
		if cerr := m.marker.Clear(); cerr != nil {
			m.logger.Warn("failed to clear game mode marker", "error", cerr)
		}
		return fmt.Errorf("failed to disable effects: %w", err)
	}
	if err := m.hypr.Keyword(ctx, "windowrule", opacityRule); err != nil {
		m.logger.Warn("failed to force opacity", "error", err)
	}

	m.wallpaper.Kill(ctx)
	waybar.Kill(ctx, m.runner)
	proc.KillAll(ctx, m.runner, "swaync")

	m.send(ctx, "Gamemode: Enabled")
	return nil
}

// Disable reloads the compositor config, restores the wallpaper and
// re-activates the current theme, which restarts the bar.
func (m *Manager) Disable(ctx context.Context) error {
	m.logger.Info("disabling game mode")
	if err := m.marker.Clear(); err != nil {
		return err
	}

	if err := m.hypr.Reload(ctx); err != nil {
		m.logger.Warn("failed to reload hyprland", "error", err)
	}
	if err := m.wallpaper.Restore(ctx); err != nil {
		m.logger.Warn("failed to restore wallpaper", "error", err)
	}

	if name, ok := theme.Active(m.themesDir); ok {
		if err := m.themes.Activate(ctx, name); err != nil {
			m.logger.Warn("failed to reload theme", "theme", name, "error", err)
		}
	} else {
		m.logger.Debug("no active theme recorded")
	}

	m.send(ctx, "Gamemode: Disabled")
	return nil
}

func (m *Manager) send(ctx context.Context, msg string) {
	if err := m.sink.Send(ctx, notify.Message(icon, msg)); err != nil {
		m.logger.Warn("failed to send notification", "error", err)
	}
}
