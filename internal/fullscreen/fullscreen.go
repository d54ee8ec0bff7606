// Package fullscreen hides the bar while a window is fullscreen.
package fullscreen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// relevant reports whether an event can change the fullscreen state.
func relevant(e hyprland.Event) bool {
	return strings.HasPrefix(e.Name, "fullscreen") || strings.HasPrefix(e.Name, "activewindow")
}

// Watch turns compositor events into fullscreen states. After each
// fullscreen or focus event the active window is queried; a value is sent
// only when the state changes. The channel closes with events.
func Watch(ctx context.Context, events <-chan hyprland.Event, client *hyprland.Client, logger *slog.Logger) <-chan bool {
	if logger == nil {
		logger = slog.Default()
	}

	out := make(chan bool)
	go func() {
		defer close(out)

		var last, seen bool
		for e := range events {
			if !relevant(e) {
				continue
			}
			w, err := client.ActiveWindow(ctx)
			if err != nil {
				logger.Warn("failed to query active window", "error", err)
				continue
			}

			full := w.Fullscreen == hyprland.FullscreenFull
			if seen && full == last {
				continue
			}
			last, seen = full, true

			select {
			case out <- full:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Controller shows and hides waybar. Game mode owns the bar while its
// marker exists, so nothing happens then.
type Controller struct {
	Runner     proc.Runner
	GameMode   state.Marker
	WaybarArgs []string
	Logger     *slog.Logger
}

// Apply hides the bar when fullscreen is true and restores it otherwise.
func (c *Controller) Apply(ctx context.Context, fullscreen bool) error {
	if c.GameMode.Exists() {
		return nil
	}
	if fullscreen {
		c.logger().Debug("fullscreen, hiding bar")
		waybar.Kill(ctx, c.Runner)
		return nil
	}
	c.logger().Debug("windowed, showing bar")
	return waybar.Run(ctx, c.Runner, c.WaybarArgs...)
}

// Run applies every state received until the channel closes.
func (c *Controller) Run(ctx context.Context, states <-chan bool) {
	for full := range states {
		if err := c.Apply(ctx, full); err != nil {
			c.logger().Warn("failed to restore bar", "error", err)
		}
	}
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
