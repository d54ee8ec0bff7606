// Package brightness adjusts the backlight through brightnessctl.
package brightness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

// DefaultPercent is reported when brightnessctl output is unusable.
const DefaultPercent = 50

// Direction of an adjustment.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q, must be up or down", s)
}

// ParsePercent reads the percentage from `brightnessctl -m` output
// ("intel_backlight,backlight,4800,50%,9600").
func ParsePercent(out string) int {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) < 4 {
		return DefaultPercent
	}
	v, err := strconv.Atoi(strings.TrimSuffix(fields[3], "%"))
	if err != nil {
		return DefaultPercent
	}
	return v
}

// Icon returns the icon file name for a brightness level.
func Icon(percent int) string {
	return []string{"brightness-low.png", "brightness-medium.png", "brightness-high.png"}[notify.Level(percent, 60, 80)]
}

// Controller changes brightness and reports it.
type Controller struct {
	runner  proc.Runner
	sink    notify.Sink
	iconDir string
	logger  *slog.Logger
}

// NewController creates a Controller.
func NewController(runner proc.Runner, sink notify.Sink, iconDir string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{runner: runner, sink: sink, iconDir: iconDir, logger: logger}
}

// Get returns the current brightness percentage.
func (c *Controller) Get(ctx context.Context) int {
	return ParsePercent(c.runner.Capture(ctx, "brightnessctl", "-m").Stdout)
}

// Adjust moves brightness by step percent and returns the new level.
func (c *Controller) Adjust(ctx context.Context, dir Direction, step int) (int, error) {
	old := c.Get(ctx)

	sign := "+"
	if dir == Down {
		sign = "-"
	}
	if err := c.runner.Run(ctx, "brightnessctl", "s", strconv.Itoa(step)+"%"+sign); err != nil {
		return old, fmt.Errorf("failed to set brightness: %w", err)
	}

	cur := c.Get(ctx)
	c.logger.Debug("brightness changed", "direction", dir, "from", old, "to", cur)

	n := notify.Notification{
		AppName:   "volume-notify",
		Icon:      filepath.Join(c.iconDir, Icon(cur)),
		Summary:   fmt.Sprintf("Brightness Level: %d%%", cur),
		Urgency:   notify.UrgencyCritical,
		SyncTag:   notify.SyncTag,
		Category:  "custom",
		Transient: true,
	}.WithProgress(cur)
	if err := c.sink.Send(ctx, n); err != nil {
		c.logger.Warn("failed to send notification", "error", err)
	}
	return cur, nil
}
